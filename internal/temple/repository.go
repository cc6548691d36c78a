package temple

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Filter selects temples. Set criteria are ANDed, except Email and Phone which
// match when either one does.
type Filter struct {
	ExcludeID    uint
	TempleName   string // exact
	ExactCity    string // exact, paired with TempleName for the name+city constraint
	Email        string
	Phone        string
	RegisteredBy *uint
	Slug         string
	City         string // case-insensitive substring
	State        string // case-insensitive substring
	Verified     *bool
}

// Query is a Filter with ordering, paging and optional column projection.
type Query struct {
	Filter  Filter
	SortBy  string // one of the sortColumns keys
	Desc    bool
	Offset  int
	Limit   int
	Columns []string
}

// sortColumns whitelists sortable JSON names and their columns.
var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"templeName": "temple_name",
	"city":       "location_city",
	"state":      "location_state",
}

// Repository is the persistence collaborator. FindByID and FindOne return an
// *Error of KindNotFound when nothing matches.
type Repository interface {
	FindByID(ctx context.Context, id uint) (*Temple, error)
	FindOne(ctx context.Context, f Filter) (*Temple, error)
	Find(ctx context.Context, q Query) ([]Temple, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Create(ctx context.Context, t *Temple) error
	Save(ctx context.Context, t *Temple) error
}

type GormRepository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) scoped(ctx context.Context, f Filter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&Temple{})

	if f.ExcludeID != 0 {
		q = q.Where("id <> ?", f.ExcludeID)
	}
	if f.TempleName != "" {
		q = q.Where("temple_name = ?", f.TempleName)
	}
	if f.ExactCity != "" {
		q = q.Where("location_city = ?", f.ExactCity)
	}
	switch {
	case f.Email != "" && f.Phone != "":
		q = q.Where("(contact_email = ? OR contact_phone = ?)", f.Email, f.Phone)
	case f.Email != "":
		q = q.Where("contact_email = ?", f.Email)
	case f.Phone != "":
		q = q.Where("contact_phone = ?", f.Phone)
	}
	if f.RegisteredBy != nil {
		q = q.Where("registered_by = ?", *f.RegisteredBy)
	}
	if f.Slug != "" {
		q = q.Where("slug = ?", f.Slug)
	}
	if f.City != "" {
		q = q.Where("location_city ILIKE ?", "%"+escapeLike(f.City)+"%")
	}
	if f.State != "" {
		q = q.Where("location_state ILIKE ?", "%"+escapeLike(f.State)+"%")
	}
	if f.Verified != nil {
		q = q.Where("is_verified = ?", *f.Verified)
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *GormRepository) FindByID(ctx context.Context, id uint) (*Temple, error) {
	var t Temple
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err, "Temple not found")
	}
	return &t, nil
}

func (r *GormRepository) FindOne(ctx context.Context, f Filter) (*Temple, error) {
	var t Temple
	if err := r.scoped(ctx, f).Order("id ASC").First(&t).Error; err != nil {
		return nil, translate(err, "Temple not found")
	}
	return &t, nil
}

func (r *GormRepository) Find(ctx context.Context, q Query) ([]Temple, error) {
	db := r.scoped(ctx, q.Filter)

	if len(q.Columns) > 0 {
		db = db.Select(q.Columns)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if q.Desc {
		direction = "DESC"
	}
	db = db.Order(fmt.Sprintf("%s %s", column, direction)).Order("id " + direction)

	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}

	var temples []Temple
	if err := db.Find(&temples).Error; err != nil {
		return nil, upstream("Failed to fetch temples", err)
	}
	return temples, nil
}

func (r *GormRepository) Count(ctx context.Context, f Filter) (int64, error) {
	var total int64
	if err := r.scoped(ctx, f).Count(&total).Error; err != nil {
		return 0, upstream("Failed to count temples", err)
	}
	return total, nil
}

func (r *GormRepository) Create(ctx context.Context, t *Temple) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict("templeName", "A temple with this name already exists in this city")
		}
		return upstream("Failed to create temple", err)
	}
	return nil
}

// Save writes the whole document. registered_by and created_at are never rewritten.
func (r *GormRepository) Save(ctx context.Context, t *Temple) error {
	err := r.DB.WithContext(ctx).
		Model(t).
		Select("*").
		Omit("id", "registered_by", "created_at").
		Updates(t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict("templeName", "A temple with this name already exists in this city")
		}
		return upstream("Failed to save temple", err)
	}
	return nil
}

func translate(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(notFoundMsg)
	}
	return upstream("Database error", err)
}
