package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yumyai/omicsatlas/pkg/db"
)

const (
	DefaultChangeReason = "Profile update"
	DefaultChangeSource = "Manual"
	DefaultChangedBy    = "system:api"

	// FieldProfileCreated is the history field name of the creation row.
	FieldProfileCreated = "profile_created"
)

const profileColumns = `id, organism_id, gram_stain, cell_shape, motility, oxygen_requirement, optimal_temperature,
	habitat, ecology_description, version_number, updated_at`

// ProfileInput carries the optional phenotype fields of an upsert. A nil
// field leaves the stored value untouched.
type ProfileInput struct {
	GramStain          *string
	CellShape          *string
	Motility           *string
	OxygenRequirement  *string
	OptimalTemperature *float64
	Habitat            *string
	EcologyDescription *string

	// ExpectedVersion, when set, must equal the stored version.
	ExpectedVersion *int
}

// ChangeMeta is recorded on every history row of one update.
type ChangeMeta struct {
	Reason    string
	Source    string
	ChangedBy string
}

func (m ChangeMeta) withDefaults() ChangeMeta {
	if m.Reason == "" {
		m.Reason = DefaultChangeReason
	}
	if m.Source == "" {
		m.Source = DefaultChangeSource
	}
	if m.ChangedBy == "" {
		m.ChangedBy = DefaultChangedBy
	}
	return m
}

// trackedField is a profile field whose changes land in the history log.
type trackedField struct {
	name  string
	get   func(*OrganismProfile) *string
	input func(ProfileInput) *string
}

var trackedFields = []trackedField{
	{"gramStain", func(p *OrganismProfile) *string { return p.GramStain }, func(in ProfileInput) *string { return in.GramStain }},
	{"cellShape", func(p *OrganismProfile) *string { return p.CellShape }, func(in ProfileInput) *string { return in.CellShape }},
	{"habitat", func(p *OrganismProfile) *string { return p.Habitat }, func(in ProfileInput) *string { return in.Habitat }},
	{"ecologyDescription", func(p *OrganismProfile) *string { return p.EcologyDescription }, func(in ProfileInput) *string { return in.EcologyDescription }},
}

// TrackedProfileFields lists the field names that produce history rows.
func TrackedProfileFields() []string {
	names := make([]string, len(trackedFields))
	for i, f := range trackedFields {
		names[i] = f.name
	}
	return names
}

// GetProfile returns the organism's profile or ErrNotFound.
func GetProfile(ctx context.Context, q sqlx.ExtContext, organismID string) (*OrganismProfile, error) {
	var p OrganismProfile
	if err := getOne(ctx, q, &p, rebind(q,
		`SELECT `+profileColumns+` FROM organism_profiles WHERE organism_id = ?`), organismID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfileHistory returns the change log, newest version first.
func ListProfileHistory(ctx context.Context, q sqlx.ExtContext, organismID string) ([]ProfileHistory, error) {
	history := []ProfileHistory{}
	if err := sqlx.SelectContext(ctx, q, &history, rebind(q,
		`SELECT id, organism_id, version_number, field_name, old_value, new_value, reason, source, changed_by, changed_at
		 FROM profile_history WHERE organism_id = ?
		 ORDER BY version_number DESC, changed_at DESC, field_name`), organismID); err != nil {
		return nil, fmt.Errorf("select profile history of %s: %w", organismID, err)
	}
	return history, nil
}

// UpsertProfile creates version 1 of an organism's profile or moves an
// existing one from version N to N+1.
//
// Creation writes a single profile_created history row. An update writes
// one row per tracked field whose value changed; an update that changes no
// tracked field still bumps the version and writes nothing. The read and
// the write share a transaction and the write only applies if the version
// is unchanged, otherwise ErrVersionConflict is returned.
func UpsertProfile(ctx context.Context, odb *db.OmicsDB, organismID string, in ProfileInput, meta ChangeMeta) (*OrganismProfile, bool, error) {

	meta = meta.withDefaults()

	tx, err := odb.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	exists, err := OrganismExists(ctx, tx, organismID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, ErrNotFound
	}

	now := time.Now().UTC()

	current, err := GetProfile(ctx, tx, organismID)
	switch {
	case err == ErrNotFound:
		created, err := createProfile(ctx, tx, organismID, in, meta, now)
		if err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit profile: %w", err)
		}
		return created, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("load profile of %s: %w", organismID, err)
	}

	if in.ExpectedVersion != nil && *in.ExpectedVersion != current.VersionNumber {
		return nil, false, ErrVersionConflict
	}

	next := *current
	applyProfileInput(&next, in)
	next.VersionNumber = current.VersionNumber + 1
	next.UpdatedAt = now

	res, err := tx.ExecContext(ctx, tx.Rebind(
		`UPDATE organism_profiles SET gram_stain = ?, cell_shape = ?, motility = ?, oxygen_requirement = ?,
		 optimal_temperature = ?, habitat = ?, ecology_description = ?, version_number = ?, updated_at = ?
		 WHERE organism_id = ? AND version_number = ?`),
		next.GramStain, next.CellShape, next.Motility, next.OxygenRequirement, next.OptimalTemperature,
		next.Habitat, next.EcologyDescription, next.VersionNumber, next.UpdatedAt,
		organismID, current.VersionNumber)
	if err != nil {
		return nil, false, fmt.Errorf("update profile of %s: %w", organismID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("update profile of %s: %w", organismID, err)
	}
	if n == 0 {
		return nil, false, ErrVersionConflict
	}

	for _, f := range trackedFields {
		if f.input(in) == nil {
			continue
		}
		before, after := f.get(current), f.get(&next)
		if equalStrings(before, after) {
			continue
		}
		if err := insertHistory(ctx, tx, ProfileHistory{
			OrganismID:    organismID,
			VersionNumber: next.VersionNumber,
			FieldName:     f.name,
			OldValue:      before,
			NewValue:      after,
			Reason:        meta.Reason,
			Source:        meta.Source,
			ChangedBy:     meta.ChangedBy,
			ChangedAt:     now,
		}); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit profile: %w", err)
	}
	return &next, false, nil
}

func createProfile(ctx context.Context, tx *sqlx.Tx, organismID string, in ProfileInput, meta ChangeMeta, now time.Time) (*OrganismProfile, error) {

	p := OrganismProfile{
		ID:            uuid.NewString(),
		OrganismID:    organismID,
		VersionNumber: 1,
		UpdatedAt:     now,
	}
	applyProfileInput(&p, in)

	if _, err := tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO organism_profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.OrganismID, p.GramStain, p.CellShape, p.Motility, p.OxygenRequirement, p.OptimalTemperature,
		p.Habitat, p.EcologyDescription, p.VersionNumber, p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert profile of %s: %w", organismID, err)
	}

	if err := insertHistory(ctx, tx, ProfileHistory{
		OrganismID:    organismID,
		VersionNumber: 1,
		FieldName:     FieldProfileCreated,
		Reason:        meta.Reason,
		Source:        meta.Source,
		ChangedBy:     meta.ChangedBy,
		ChangedAt:     now,
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, h ProfileHistory) error {
	h.ID = uuid.NewString()
	if _, err := tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO profile_history
		 (id, organism_id, version_number, field_name, old_value, new_value, reason, source, changed_by, changed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		h.ID, h.OrganismID, h.VersionNumber, h.FieldName, h.OldValue, h.NewValue,
		h.Reason, h.Source, h.ChangedBy, h.ChangedAt); err != nil {
		return fmt.Errorf("insert history %s of %s: %w", h.FieldName, h.OrganismID, err)
	}
	return nil
}

func applyProfileInput(p *OrganismProfile, in ProfileInput) {
	if in.GramStain != nil {
		p.GramStain = in.GramStain
	}
	if in.CellShape != nil {
		p.CellShape = in.CellShape
	}
	if in.Motility != nil {
		p.Motility = in.Motility
	}
	if in.OxygenRequirement != nil {
		p.OxygenRequirement = in.OxygenRequirement
	}
	if in.OptimalTemperature != nil {
		p.OptimalTemperature = in.OptimalTemperature
	}
	if in.Habitat != nil {
		p.Habitat = in.Habitat
	}
	if in.EcologyDescription != nil {
		p.EcologyDescription = in.EcologyDescription
	}
}

func equalStrings(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
