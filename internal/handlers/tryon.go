package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"styleme-backend/internal/entitlement"
	"styleme-backend/internal/models"
	"styleme-backend/internal/tryon"
	"styleme-backend/internal/wardrobe"
)

type TryOnHandler struct {
	orchestrator *tryon.Orchestrator
	gate         *entitlement.Gate
	wardrobe     *wardrobe.Service
}

func NewTryOnHandler(orchestrator *tryon.Orchestrator, gate *entitlement.Gate, wardrobeService *wardrobe.Service) *TryOnHandler {
	return &TryOnHandler{
		orchestrator: orchestrator,
		gate:         gate,
		wardrobe:     wardrobeService,
	}
}

// TryOn godoc
// @Summary     Run a virtual try-on
// @Description Submits a user photo and a garment photo to the try-on provider and waits for the generated result.
// @Tags        tryon
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       user_image formData file true "Photo of the user"
// @Param       garment_image formData file true "Photo of the garment"
// @Param       garment_type formData string true "upper_body, lower_body, dress or outerwear"
// @Success     200 {object} models.TryOnResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Router      /tryon [post]
func (h *TryOnHandler) TryOn(c *gin.Context) {
	userFile, err := c.FormFile("user_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "user_image is required", Message: err.Error()})
		return
	}

	garmentFile, err := c.FormFile("garment_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "garment_image is required", Message: err.Error()})
		return
	}

	garmentType := tryon.GarmentType(c.PostForm("garment_type"))
	if !garmentType.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "garment_type must be one of upper_body, lower_body, dress, outerwear",
		})
		return
	}

	userRef, cleanupUser, err := h.stageUpload(c, userFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to stage user image", Message: err.Error()})
		return
	}
	defer cleanupUser()

	garmentRef, cleanupGarment, err := h.stageUpload(c, garmentFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to stage garment image", Message: err.Error()})
		return
	}
	defer cleanupGarment()

	req := tryon.Request{
		UserImage:          userRef,
		GarmentImage:       garmentRef,
		GarmentType:        garmentType,
		PreserveBackground: c.PostForm("preserve_background") != "false",
		EnhanceQuality:     c.PostForm("enhance_quality") != "false",
	}

	result, err := h.orchestrator.Run(c.Request.Context(), req)
	if err != nil {
		respondTryOnError(c, err)
		return
	}

	// History is a convenience record; its failure never fails the try-on.
	var historyID string
	historyItem, err := h.wardrobe.AddHistory(c.Request.Context(), wardrobe.HistoryItem{
		UserImage:    userFile.Filename,
		GarmentImage: garmentFile.Filename,
		ResultImage:  result.URI,
		GarmentType:  string(garmentType),
		Confidence:   result.Confidence,
		Provider:     result.Provider,
		Model:        result.Model,
	})
	if err != nil {
		log.Printf("failed to record try-on history: %v", err)
	} else {
		historyID = historyItem.ID
	}

	c.JSON(http.StatusOK, models.TryOnResponse{Result: *result, HistoryID: historyID})
}

// GetUsage godoc
// @Summary     Current try-on quota
// @Tags        tryon
// @Produce     json
// @Security    Bearer
// @Success     200 {object} entitlement.TryOnAccess
// @Router      /tryon/usage [get]
func (h *TryOnHandler) GetUsage(c *gin.Context) {
	c.JSON(http.StatusOK, h.gate.CheckTryOnUsage(c.Request.Context()))
}

// stageUpload writes the multipart file to a temp path so the encoder can
// read it, returning an ImageRef carrying the declared metadata.
func (h *TryOnHandler) stageUpload(c *gin.Context, file *multipart.FileHeader) (tryon.ImageRef, func(), error) {
	tmp, err := os.CreateTemp("", "tryon-*"+filepath.Ext(file.Filename))
	if err != nil {
		return tryon.ImageRef{}, nil, err
	}
	tmp.Close()

	if err := c.SaveUploadedFile(file, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return tryon.ImageRef{}, nil, err
	}

	ref := tryon.ImageRef{
		URI:           tmp.Name(),
		FileSizeBytes: file.Size,
		MimeType:      file.Header.Get("Content-Type"),
	}
	if w, err := strconv.Atoi(c.PostForm("width")); err == nil {
		ref.Width = w
	}
	if ht, err := strconv.Atoi(c.PostForm("height")); err == nil {
		ref.Height = ht
	}

	return ref, func() { os.Remove(tmp.Name()) }, nil
}

// respondTryOnError maps the try-on error taxonomy onto HTTP statuses: the
// client needs to know whether to show an upgrade prompt, fix the request,
// back off, or report a provider problem.
func respondTryOnError(c *gin.Context, err error) {
	var (
		entitlementErr *tryon.EntitlementError
		validationErr  *tryon.ValidationError
		encodingErr    *tryon.EncodingError
		inputErr       *tryon.InputError
		rateLimitErr   *tryon.RateLimitError
		authErr        *tryon.AuthError
		quotaErr       *tryon.QuotaError
		jobFailedErr   *tryon.JobFailedError
		timeoutErr     *tryon.JobTimeoutError
		transientErr   *tryon.TransientError
	)

	switch {
	case errors.As(err, &entitlementErr):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:      "try-on not available",
			Message:    entitlementErr.Reason,
			CanUpgrade: entitlementErr.CanUpgrade,
		})
	case errors.As(err, &validationErr), errors.As(err, &encodingErr), errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid try-on request", Message: err.Error()})
	case errors.As(err, &rateLimitErr):
		c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "provider rate limit, retry later", Message: err.Error()})
	case errors.As(err, &timeoutErr), errors.As(err, &transientErr):
		c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{Error: "try-on did not complete in time", Message: err.Error()})
	case errors.As(err, &authErr), errors.As(err, &quotaErr), errors.As(err, &jobFailedErr):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "try-on provider error", Message: err.Error()})
	default:
		// UnexpectedResponseError, InvalidResultError and anything unforeseen.
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "unexpected try-on failure", Message: err.Error()})
	}
}
