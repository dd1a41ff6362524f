package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codegoddy/skincare/internal/domain/identity"
	"github.com/codegoddy/skincare/internal/domain/identity/model"
	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// ProfileRepository persists user profiles and answers role lookups for the
// authorization gate.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a profile repository instance.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetRole implements identity.RoleStore.
func (r *ProfileRepository) GetRole(ctx context.Context, subjectID string) (model.Role, error) {
	const op = "profile.get_role"
	var profile Profile
	err := r.db.WithContext(ctx).Select("role").Where("id = ?", subjectID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", identity.ErrProfileNotFound
	}
	if err != nil {
		return "", platformerrors.Wrap(platformerrors.KindStorage, op, "load profile", err)
	}
	return model.Role(profile.Role), nil
}

// Ensure upserts the profile row for a freshly authenticated subject,
// keeping an existing role untouched.
func (r *ProfileRepository) Ensure(ctx context.Context, subjectID, email, fullName string) (*Profile, error) {
	const op = "profile.ensure"
	profile := Profile{
		ID:       subjectID,
		Email:    email,
		FullName: fullName,
		Role:     string(model.RoleCustomer),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "upsert profile", err)
	}

	var current Profile
	if err := r.db.WithContext(ctx).First(&current, "id = ?", subjectID).Error; err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "reload profile", err)
	}
	return &current, nil
}

// Get loads one profile.
func (r *ProfileRepository) Get(ctx context.Context, subjectID string) (*Profile, error) {
	const op = "profile.get"
	var profile Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", subjectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.New(platformerrors.KindNotFound, op, "profile not found")
	}
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "load profile", err)
	}
	return &profile, nil
}

// Update applies the editable profile fields.
func (r *ProfileRepository) Update(ctx context.Context, subjectID string, fields map[string]any) (*Profile, error) {
	const op = "profile.update"
	res := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", subjectID).Updates(fields)
	if res.Error != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, platformerrors.New(platformerrors.KindNotFound, op, "profile not found")
	}
	return r.Get(ctx, subjectID)
}

// SetRole changes a profile's role. Admin operation.
func (r *ProfileRepository) SetRole(ctx context.Context, subjectID string, role model.Role) (*Profile, error) {
	const op = "profile.set_role"
	if !role.Valid() {
		return nil, platformerrors.New(platformerrors.KindValidation, op, "invalid role: "+string(role))
	}
	return r.Update(ctx, subjectID, map[string]any{"role": string(role)})
}

// List returns all profiles, newest first. Admin operation.
func (r *ProfileRepository) List(ctx context.Context) ([]Profile, error) {
	const op = "profile.list"
	var profiles []Profile
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&profiles).Error; err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "list profiles", err)
	}
	return profiles, nil
}
