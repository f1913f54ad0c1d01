package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/database"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

// RoleProfileStore is the per-role profile and preference capability.
// Each role has its own implementation; callers pick one through the
// ProfileRegistry instead of branching on the role enum.
type RoleProfileStore interface {
	// Create inserts the empty profile and preference rows for a new
	// user, on the caller's transaction.
	Create(ctx context.Context, q database.Queryer, userID uuid.UUID) error
	Profile(ctx context.Context, userID uuid.UUID) (interface{}, error)
	// UpdateProfile applies a raw field map. Fields outside the role's
	// allowlist are dropped silently; invalid values are rejected.
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (interface{}, error)
	Preferences(ctx context.Context, userID uuid.UUID) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, language string) (*models.Preferences, error)
	SetDeleted(ctx context.Context, q database.Queryer, userID uuid.UUID, deleted bool) error
}

type ProfileRegistry map[models.UserRole]RoleProfileStore

func NewProfileRegistry(db *sql.DB) ProfileRegistry {
	return ProfileRegistry{
		models.RoleStudent:   &studentStore{db: db, prefs: prefsTable{db: db, table: "student_preferences"}},
		models.RoleMentor:    &mentorStore{db: db, prefs: prefsTable{db: db, table: "mentor_preferences"}},
		models.RoleInstitute: &instituteStore{db: db, prefs: prefsTable{db: db, table: "institute_preferences"}},
	}
}

func (r ProfileRegistry) For(role models.UserRole) (RoleProfileStore, error) {
	store, ok := r[role]
	if !ok {
		return nil, api.New(http.StatusBadRequest, "INVALID_ROLE", fmt.Sprintf("%q is not a valid role", role))
	}
	return store, nil
}

// filterFields keeps only the allowlisted keys, then decodes the
// remainder into dst through JSON so types line up with the body.
func filterFields(fields map[string]interface{}, dst interface{}, allowed ...string) error {
	kept := make(map[string]interface{}, len(fields))
	for _, k := range allowed {
		if v, ok := fields[k]; ok {
			kept[k] = v
		}
	}
	raw, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid profile fields"}})
	}
	return nil
}

type fieldSetter struct {
	set  []string
	args []interface{}
}

func newFieldSetter(userID uuid.UUID) *fieldSetter {
	return &fieldSetter{set: []string{"updated_at = NOW()"}, args: []interface{}{userID}}
}

func (f *fieldSetter) add(col string, val interface{}) {
	f.args = append(f.args, val)
	f.set = append(f.set, fmt.Sprintf("%s = $%d", col, len(f.args)))
}

func (f *fieldSetter) query(table, returning string) string {
	return fmt.Sprintf(`UPDATE %s SET %s WHERE user_id = $1 RETURNING %s`,
		table, strings.Join(f.set, ", "), returning)
}

// ── Preferences (identical shape across roles) ──────────────────────

type prefsTable struct {
	db    *sql.DB
	table string
}

const prefsCols = `user_id, language, is_deleted, created_at, updated_at`

func (p prefsTable) create(ctx context.Context, q database.Queryer, userID uuid.UUID) error {
	_, err := q.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id) VALUES ($1)`, p.table), userID)
	if err != nil {
		return fmt.Errorf("create preferences: %w", err)
	}
	return nil
}

func (p prefsTable) get(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	row := p.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1`, prefsCols, p.table), userID)
	var prefs models.Preferences
	err := row.Scan(&prefs.UserID, &prefs.Language, &prefs.IsDeleted, &prefs.CreatedAt, &prefs.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("Preferences Not Found", "No preferences exist for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return &prefs, nil
}

func (p prefsTable) update(ctx context.Context, userID uuid.UUID, language string) (*models.Preferences, error) {
	if strings.TrimSpace(language) == "" {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "language", Message: "language cannot be empty"}})
	}
	row := p.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE %s SET language = $2, updated_at = NOW() WHERE user_id = $1 RETURNING %s`, p.table, prefsCols),
		userID, language)
	var prefs models.Preferences
	err := row.Scan(&prefs.UserID, &prefs.Language, &prefs.IsDeleted, &prefs.CreatedAt, &prefs.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("Preferences Not Found", "No preferences exist for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	return &prefs, nil
}

func (p prefsTable) setDeleted(ctx context.Context, q database.Queryer, userID uuid.UUID, deleted bool) error {
	_, err := q.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET is_deleted = $2, updated_at = NOW() WHERE user_id = $1`, p.table),
		userID, deleted)
	if err != nil {
		return fmt.Errorf("set preferences deleted: %w", err)
	}
	return nil
}

// ── Student ─────────────────────────────────────────────────────────

type studentStore struct {
	db    *sql.DB
	prefs prefsTable
}

const studentCols = `user_id, COALESCE(grade, ''), school, bio, awards,
	COALESCE(target_exam, ''), COALESCE(target_year, 0), is_deleted, created_at, updated_at`

func scanStudent(row interface{ Scan(...interface{}) error }) (models.StudentProfile, error) {
	var p models.StudentProfile
	err := row.Scan(&p.UserID, &p.Grade, &p.School, &p.Bio, pq.Array(&p.Awards),
		&p.TargetExam, &p.TargetYear, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *studentStore) Create(ctx context.Context, q database.Queryer, userID uuid.UUID) error {
	if _, err := q.ExecContext(ctx,
		`INSERT INTO student_profiles (user_id) VALUES ($1)`, userID); err != nil {
		return fmt.Errorf("create student profile: %w", err)
	}
	return s.prefs.create(ctx, q, userID)
}

func (s *studentStore) Profile(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentCols+` FROM student_profiles WHERE user_id = $1`, userID)
	p, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("Profile Not Found", "No profile exists for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("find student profile: %w", err)
	}
	return &p, nil
}

func (s *studentStore) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (interface{}, error) {
	var upd struct {
		Grade      *models.Grade      `json:"grade"`
		School     *string            `json:"school"`
		Bio        *string            `json:"bio"`
		Awards     []string           `json:"awards"`
		TargetExam *models.TargetExam `json:"targetExam"`
		TargetYear *int               `json:"targetYear"`
	}
	if err := filterFields(fields, &upd, "grade", "school", "bio", "awards", "targetExam", "targetYear"); err != nil {
		return nil, err
	}

	var issues []api.FieldIssue
	if upd.Grade != nil && !models.ValidGrades[*upd.Grade] {
		issues = append(issues, api.FieldIssue{Field: "grade", Message: "grade must be between 6th and 12th"})
	}
	if upd.TargetExam != nil && !models.ValidTargetExams[*upd.TargetExam] {
		issues = append(issues, api.FieldIssue{Field: "targetExam", Message: "targetExam must be JEE or NEET"})
	}
	if upd.TargetYear != nil && *upd.TargetYear <= time.Now().Year() {
		issues = append(issues, api.FieldIssue{Field: "targetYear", Message: "targetYear must be in the future"})
	}
	if len(issues) > 0 {
		return nil, api.ValidationError(issues)
	}

	f := newFieldSetter(userID)
	if upd.Grade != nil {
		f.add("grade", *upd.Grade)
	}
	if upd.School != nil {
		f.add("school", *upd.School)
	}
	if upd.Bio != nil {
		f.add("bio", *upd.Bio)
	}
	if upd.Awards != nil {
		f.add("awards", pq.Array(upd.Awards))
	}
	if upd.TargetExam != nil {
		f.add("target_exam", *upd.TargetExam)
	}
	if upd.TargetYear != nil {
		f.add("target_year", *upd.TargetYear)
	}

	row := s.db.QueryRowContext(ctx, f.query("student_profiles", studentCols), f.args...)
	p, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("Profile Not Found", "No profile exists for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("update student profile: %w", err)
	}
	return &p, nil
}

func (s *studentStore) Preferences(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	return s.prefs.get(ctx, userID)
}

func (s *studentStore) UpdatePreferences(ctx context.Context, userID uuid.UUID, language string) (*models.Preferences, error) {
	return s.prefs.update(ctx, userID, language)
}

func (s *studentStore) SetDeleted(ctx context.Context, q database.Queryer, userID uuid.UUID, deleted bool) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE student_profiles SET is_deleted = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, deleted); err != nil {
		return fmt.Errorf("set student profile deleted: %w", err)
	}
	return s.prefs.setDeleted(ctx, q, userID, deleted)
}

// ── Mentor ──────────────────────────────────────────────────────────

type mentorStore struct {
	db    *sql.DB
	prefs prefsTable
}

const mentorCols = `user_id, expertise, bio, availability, is_deleted, created_at, updated_at`

func scanMentor(row interface{ Scan(...interface{}) error }) (models.MentorProfile, error) {
	var p models.MentorProfile
	err := row.Scan(&p.UserID, pq.Array(&p.Expertise), &p.Bio, &p.Availability,
		&p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *mentorStore) Create(ctx context.Context, q database.Queryer, userID uuid.UUID) error {
	if _, err := q.ExecContext(ctx,
		`INSERT INTO mentor_profiles (user_id) VALUES ($1)`, userID); err != nil {
		return fmt.Errorf("create mentor profile: %w", err)
	}
	return s.prefs.create(ctx, q, userID)
}

func (s *mentorStore) Profile(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+mentorCols+` FROM mentor_profiles WHERE user_id = $1`, userID)
	p, err := scanMentor(row)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("Profile Not Found", "No profile exists for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("find mentor profile: %w", err)
	}
	return &p, nil
}

func (s *mentorStore) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (interface{}, error) {
	var upd struct {
		Expertise    []string `json:"expertise"`
		Bio          *string  `json:"bio"`
		Availability *string  `json:"availability"`
	}
	if err := filterFields(fields, &upd, "expertise", "bio", "availability"); err != nil {
		return nil, err
	}

	f := newFieldSetter(userID)
	if upd.Expertise != nil {
		f.add("expertise", pq.Array(upd.Expertise))
	}
	if upd.Bio != nil {
		f.add("bio", *upd.Bio)
	}
	if upd.Availability != nil {
		f.add("availability", *upd.Availability)
	}

	row := s.db.QueryRowContext(ctx, f.query("mentor_profiles", mentorCols), f.args...)
	p, err := scanMentor(row)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("Profile Not Found", "No profile exists for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("update mentor profile: %w", err)
	}
	return &p, nil
}

func (s *mentorStore) Preferences(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	return s.prefs.get(ctx, userID)
}

func (s *mentorStore) UpdatePreferences(ctx context.Context, userID uuid.UUID, language string) (*models.Preferences, error) {
	return s.prefs.update(ctx, userID, language)
}

func (s *mentorStore) SetDeleted(ctx context.Context, q database.Queryer, userID uuid.UUID, deleted bool) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE mentor_profiles SET is_deleted = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, deleted); err != nil {
		return fmt.Errorf("set mentor profile deleted: %w", err)
	}
	return s.prefs.setDeleted(ctx, q, userID, deleted)
}

// ── Institute ───────────────────────────────────────────────────────

type instituteStore struct {
	db    *sql.DB
	prefs prefsTable
}

const instituteCols = `user_id, address, contact_number, bio, is_deleted, created_at, updated_at`

func scanInstitute(row interface{ Scan(...interface{}) error }) (models.InstituteProfile, error) {
	var p models.InstituteProfile
	err := row.Scan(&p.UserID, &p.Address, &p.ContactNumber, &p.Bio,
		&p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *instituteStore) Create(ctx context.Context, q database.Queryer, userID uuid.UUID) error {
	if _, err := q.ExecContext(ctx,
		`INSERT INTO institute_profiles (user_id) VALUES ($1)`, userID); err != nil {
		return fmt.Errorf("create institute profile: %w", err)
	}
	return s.prefs.create(ctx, q, userID)
}

func (s *instituteStore) Profile(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+instituteCols+` FROM institute_profiles WHERE user_id = $1`, userID)
	p, err := scanInstitute(row)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("Profile Not Found", "No profile exists for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("find institute profile: %w", err)
	}
	return &p, nil
}

func (s *instituteStore) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (interface{}, error) {
	var upd struct {
		Address       *string `json:"address"`
		ContactNumber *string `json:"contactNumber"`
		Bio           *string `json:"bio"`
	}
	if err := filterFields(fields, &upd, "address", "contactNumber", "bio"); err != nil {
		return nil, err
	}

	f := newFieldSetter(userID)
	if upd.Address != nil {
		f.add("address", *upd.Address)
	}
	if upd.ContactNumber != nil {
		f.add("contact_number", *upd.ContactNumber)
	}
	if upd.Bio != nil {
		f.add("bio", *upd.Bio)
	}

	row := s.db.QueryRowContext(ctx, f.query("institute_profiles", instituteCols), f.args...)
	p, err := scanInstitute(row)
	if err == sql.ErrNoRows {
		return nil, api.NotFound("Profile Not Found", "No profile exists for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("update institute profile: %w", err)
	}
	return &p, nil
}

func (s *instituteStore) Preferences(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	return s.prefs.get(ctx, userID)
}

func (s *instituteStore) UpdatePreferences(ctx context.Context, userID uuid.UUID, language string) (*models.Preferences, error) {
	return s.prefs.update(ctx, userID, language)
}

func (s *instituteStore) SetDeleted(ctx context.Context, q database.Queryer, userID uuid.UUID, deleted bool) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE institute_profiles SET is_deleted = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, deleted); err != nil {
		return fmt.Errorf("set institute profile deleted: %w", err)
	}
	return s.prefs.setDeleted(ctx, q, userID, deleted)
}
