package storage

import (
	"context"
	"errors"
	"strings"

	"food-ordering-api/models"
	"food-ordering-api/pricing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore implements Store on top of gorm + sqlite.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the sqlite database at path (":memory:" for tests) and
// migrates the schema.
func Open(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	// sqlite is single-writer; one pooled connection also keeps ":memory:"
	// databases coherent across goroutines.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint"):
		return ErrDuplicateKey
	default:
		return err
	}
}

// ── Users ──────────────────────────────────────────────────────────

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ── Catalog ────────────────────────────────────────────────────────

// ListRestaurants returns active restaurants, optionally filtered by a
// case-insensitive exact cuisine match.
func (s *GormStore) ListRestaurants(ctx context.Context, category string) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	q := s.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("LOWER(cuisine) = LOWER(?)", category)
	}
	if err := q.Order("name").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// ListAllRestaurants includes deactivated restaurants. Admin surface only.
func (s *GormStore) ListAllRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := s.db.WithContext(ctx).Preload("MenuItems").Order("name").Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (s *GormStore) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *GormStore) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *GormStore) UpdateRestaurant(ctx context.Context, id uint, fields map[string]interface{}) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	if err := s.db.WithContext(ctx).Model(&r).Updates(fields).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// DeactivateRestaurant soft-deletes: past orders keep their reference.
func (s *GormStore) DeactivateRestaurant(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMenuItems returns only the available items of a restaurant.
func (s *GormStore) ListMenuItems(ctx context.Context, restaurantID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_available = ?", restaurantID, true).
		Order("category, name").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *GormStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return translate(s.db.WithContext(ctx).Create(item).Error)
}

// UpdateMenuItem edits live catalog state only. Snapshots inside existing
// orders are untouched by design.
func (s *GormStore) UpdateMenuItem(ctx context.Context, id uint, fields map[string]interface{}) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	if err := s.db.WithContext(ctx).Model(&item).Updates(fields).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// ── Orders ─────────────────────────────────────────────────────────

// CreateOrder persists the order row and every line item in a single
// transaction. If any item fails, nothing survives.
func (s *GormStore) CreateOrder(ctx context.Context, o *models.Order) error {
	items := o.Items
	o.Items = nil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = o.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   o.ID,
			ToStatus:  o.Status,
			ChangedBy: o.UserID,
			Note:      "Order placed",
		}).Error
	})
	o.Items = items
	return translate(err)
}

func (s *GormStore) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *GormStore) FindOrderByIdempotencyKey(ctx context.Context, userID uint, key string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *GormStore) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	q := s.db.WithContext(ctx).Preload("Items").Preload("User").Preload("Restaurant")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// TransitionStatus applies a status change with a compare-and-swap on the
// current status, so two concurrent transitions on one order cannot both win.
// The status update and its history entry commit together.
func (s *GormStore) TransitionStatus(ctx context.Context, orderID uint, from, to models.OrderStatus, changedBy uint, note string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrConflict
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    orderID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  changedBy,
			Note:       note,
		}).Error
	})
	return translate(err)
}

// ForceStatus sets a status unconditionally. Admin override only; always
// leaves a history entry.
func (s *GormStore) ForceStatus(ctx context.Context, orderID uint, to models.OrderStatus, changedBy uint, note string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, orderID).Error; err != nil {
			return err
		}
		prev := o.Status
		if err := tx.Model(&o).Update("status", to).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    orderID,
			FromStatus: prev,
			ToStatus:   to,
			ChangedBy:  changedBy,
			Note:       note,
		}).Error
	})
	return translate(err)
}

func (s *GormStore) SetPaymentIntent(ctx context.Context, orderID uint, intentID string) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).Update("payment_intent_id", intentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SetPaymentStatus(ctx context.Context, orderID uint, status models.PaymentStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Restaurant{}).Count(&st.TotalRestaurants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&st.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&st.TotalUsers).Error; err != nil {
		return nil, err
	}
	var revenue int64
	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	st.TotalRevenue = pricing.Cents(revenue)
	return &st, nil
}
