package wardrobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"styleme-backend/internal/storage"
)

// MaxHistoryItems caps how many try-on results are kept, newest first.
const MaxHistoryItems = 20

var ErrNotFound = errors.New("record not found")

type ClothingItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand,omitempty"`
	Material  string    `json:"material,omitempty"`
	ImageURI  string    `json:"image_uri"`
	CreatedAt time.Time `json:"created_at"`
}

type Outfit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ItemIDs   []string  `json:"item_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryItem is one archived try-on result.
type HistoryItem struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	UserImage    string    `json:"user_image"`
	GarmentImage string    `json:"garment_image"`
	ResultImage  string    `json:"result_image"`
	GarmentType  string    `json:"garment_type"`
	Confidence   float64   `json:"confidence"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	IsFavorite   bool      `json:"is_favorite"`
}

// Service is whole-collection CRUD over the Store: read, modify, write back.
// The mutex serializes read-modify-write cycles within this process; the
// store itself is last-write-wins.
type Service struct {
	store storage.Store
	mu    sync.Mutex
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListClothes(ctx context.Context) ([]ClothingItem, error) {
	var clothes []ClothingItem
	if err := s.load(ctx, storage.CollectionClothes, &clothes); err != nil {
		return nil, err
	}
	return clothes, nil
}

func (s *Service) AddCloth(ctx context.Context, item ClothingItem) (*ClothingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var clothes []ClothingItem
	if err := s.load(ctx, storage.CollectionClothes, &clothes); err != nil {
		return nil, err
	}

	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	clothes = append([]ClothingItem{item}, clothes...)

	if err := s.save(ctx, storage.CollectionClothes, clothes); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) UpdateCloth(ctx context.Context, id string, update ClothingItem) (*ClothingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var clothes []ClothingItem
	if err := s.load(ctx, storage.CollectionClothes, &clothes); err != nil {
		return nil, err
	}

	for i := range clothes {
		if clothes[i].ID != id {
			continue
		}
		clothes[i].Name = update.Name
		clothes[i].Brand = update.Brand
		clothes[i].Material = update.Material
		if update.ImageURI != "" {
			clothes[i].ImageURI = update.ImageURI
		}
		if err := s.save(ctx, storage.CollectionClothes, clothes); err != nil {
			return nil, err
		}
		return &clothes[i], nil
	}

	return nil, ErrNotFound
}

func (s *Service) DeleteCloth(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var clothes []ClothingItem
	if err := s.load(ctx, storage.CollectionClothes, &clothes); err != nil {
		return err
	}

	filtered := clothes[:0]
	for _, item := range clothes {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(clothes) {
		return ErrNotFound
	}

	return s.save(ctx, storage.CollectionClothes, filtered)
}

func (s *Service) ListOutfits(ctx context.Context) ([]Outfit, error) {
	var outfits []Outfit
	if err := s.load(ctx, storage.CollectionOutfits, &outfits); err != nil {
		return nil, err
	}
	return outfits, nil
}

func (s *Service) OutfitCount(ctx context.Context) (int, error) {
	outfits, err := s.ListOutfits(ctx)
	if err != nil {
		return 0, err
	}
	return len(outfits), nil
}

func (s *Service) AddOutfit(ctx context.Context, outfit Outfit) (*Outfit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var outfits []Outfit
	if err := s.load(ctx, storage.CollectionOutfits, &outfits); err != nil {
		return nil, err
	}

	outfit.ID = uuid.NewString()
	outfit.CreatedAt = time.Now()
	outfits = append(outfits, outfit)

	if err := s.save(ctx, storage.CollectionOutfits, outfits); err != nil {
		return nil, err
	}
	return &outfit, nil
}

func (s *Service) DeleteOutfit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var outfits []Outfit
	if err := s.load(ctx, storage.CollectionOutfits, &outfits); err != nil {
		return err
	}

	filtered := outfits[:0]
	for _, outfit := range outfits {
		if outfit.ID != id {
			filtered = append(filtered, outfit)
		}
	}
	if len(filtered) == len(outfits) {
		return ErrNotFound
	}

	return s.save(ctx, storage.CollectionOutfits, filtered)
}

func (s *Service) ListHistory(ctx context.Context) ([]HistoryItem, error) {
	var history []HistoryItem
	if err := s.load(ctx, storage.CollectionTryOnHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// AddHistory prepends a try-on result, trimming the list to MaxHistoryItems.
func (s *Service) AddHistory(ctx context.Context, item HistoryItem) (*HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []HistoryItem
	if err := s.load(ctx, storage.CollectionTryOnHistory, &history); err != nil {
		return nil, err
	}

	item.ID = uuid.NewString()
	item.Timestamp = time.Now()
	history = append([]HistoryItem{item}, history...)
	if len(history) > MaxHistoryItems {
		history = history[:MaxHistoryItems]
	}

	if err := s.save(ctx, storage.CollectionTryOnHistory, history); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) ToggleFavorite(ctx context.Context, id string) (*HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []HistoryItem
	if err := s.load(ctx, storage.CollectionTryOnHistory, &history); err != nil {
		return nil, err
	}

	for i := range history {
		if history[i].ID == id {
			history[i].IsFavorite = !history[i].IsFavorite
			if err := s.save(ctx, storage.CollectionTryOnHistory, history); err != nil {
				return nil, err
			}
			return &history[i], nil
		}
	}

	return nil, ErrNotFound
}

func (s *Service) RemoveHistory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []HistoryItem
	if err := s.load(ctx, storage.CollectionTryOnHistory, &history); err != nil {
		return err
	}

	filtered := history[:0]
	for _, item := range history {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(history) {
		return ErrNotFound
	}

	return s.save(ctx, storage.CollectionTryOnHistory, filtered)
}

func (s *Service) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, storage.CollectionTryOnHistory, []HistoryItem{})
}

func (s *Service) load(ctx context.Context, collection string, out any) error {
	data, err := s.store.GetAll(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", collection, err)
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	if err := s.store.SetAll(ctx, collection, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", collection, err)
	}
	return nil
}
