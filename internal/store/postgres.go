package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolplanner/backend/internal/models"
)

const deadlineFormat = "2006-01-02"

// TableNames lets a deployment keep its existing table names.
type TableNames struct {
	Accounts string
	Tokens   string
	Classes  string
	Homework string
}

func DefaultTableNames() TableNames {
	return TableNames{
		Accounts: "accounts",
		Tokens:   "tokens",
		Classes:  "classes",
		Homework: "homework",
	}
}

// PostgresStore handles all persistence against PostgreSQL: accounts,
// tokens, classes, and homework.
type PostgresStore struct {
	pool *pgxpool.Pool

	// Quoted identifiers; table names cannot be bound as parameters.
	accounts string
	tokens   string
	classes  string
	homework string
}

func NewPostgresStore(pool *pgxpool.Pool, tables TableNames) *PostgresStore {
	return &PostgresStore{
		pool:     pool,
		accounts: pgx.Identifier{tables.Accounts}.Sanitize(),
		tokens:   pgx.Identifier{tables.Tokens}.Sanitize(),
		classes:  pgx.Identifier{tables.Classes}.Sanitize(),
		homework: pgx.Identifier{tables.Homework}.Sanitize(),
	}
}

// Migrate creates the tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				username   VARCHAR(50)  UNIQUE NOT NULL,
				password   VARCHAR(255) NOT NULL,
				created_at TIMESTAMPTZ  DEFAULT NOW()
			)`, s.accounts),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id       UUID        NOT NULL,
				access_token  CHAR(32)    UNIQUE NOT NULL,
				token_type    VARCHAR(16) NOT NULL,
				expiry        TIMESTAMPTZ NOT NULL,
				refresh_token CHAR(32)    UNIQUE NOT NULL
			)`, s.tokens),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id        BIGSERIAL PRIMARY KEY,
				user_id   UUID             NOT NULL,
				name      VARCHAR(20)      NOT NULL,
				color     CHAR(6)          NOT NULL,
				grade_k   DOUBLE PRECISION NOT NULL,
				grade_m   DOUBLE PRECISION NOT NULL,
				grade_t   TEXT             NOT NULL,
				grade_s   DOUBLE PRECISION NOT NULL,
				average   DOUBLE PRECISION,
				last_used TIMESTAMPTZ      NOT NULL
			)`, s.classes),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_id BIGSERIAL PRIMARY KEY,
				user_id  UUID        NOT NULL,
				class    BIGINT      NOT NULL,
				deadline DATE        NOT NULL,
				given    TIMESTAMPTZ NOT NULL,
				text     VARCHAR(75) NOT NULL,
				type     CHAR(1)     NOT NULL,
				status   CHAR(1)
			)`, s.homework),
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Ping checks database reachability (used by the uptime probe).
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ── Accounts ─────────────────────────────────────────────

func (s *PostgresStore) AccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var a models.Account
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, username, password, created_at FROM %s WHERE username = $1`, s.accounts),
		username,
	).Scan(&a.ID, &a.Username, &a.Password, &a.CreatedAt)
	if err != nil {
		return nil, wrap("account by username", err)
	}
	return &a, nil
}

// ── Tokens ───────────────────────────────────────────────

func (s *PostgresStore) DeleteTokensForUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, s.tokens), userID)
	if err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertToken(ctx context.Context, t *models.Token) error {
	_, err := s.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, access_token, token_type, expiry, refresh_token)
		 VALUES ($1, $2, $3, $4, $5)`, s.tokens),
		t.UserID, t.AccessToken, t.TokenType, t.Expiry, t.RefreshToken)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (s *PostgresStore) TokenByAccess(ctx context.Context, accessToken string) (*models.Token, error) {
	return s.tokenWhere(ctx, "access_token", accessToken)
}

func (s *PostgresStore) TokenByRefresh(ctx context.Context, refreshToken string) (*models.Token, error) {
	return s.tokenWhere(ctx, "refresh_token", refreshToken)
}

func (s *PostgresStore) tokenWhere(ctx context.Context, column, value string) (*models.Token, error) {
	var t models.Token
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT user_id, access_token, token_type, expiry, refresh_token
		 FROM %s WHERE %s = $1`, s.tokens, column),
		value,
	).Scan(&t.UserID, &t.AccessToken, &t.TokenType, &t.Expiry, &t.RefreshToken)
	if err != nil {
		return nil, wrap("token lookup", err)
	}
	return &t, nil
}

// UpdateTokenByRefresh rewrites the token row in place: both tokens and the
// expiry change, the row identity and owner stay.
func (s *PostgresStore) UpdateTokenByRefresh(ctx context.Context, oldRefresh string, t *models.Token) error {
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET access_token = $1, expiry = $2, refresh_token = $3
		 WHERE refresh_token = $4`, s.tokens),
		t.AccessToken, t.Expiry, t.RefreshToken, oldRefresh)
	if err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Classes ──────────────────────────────────────────────

func (s *PostgresStore) ListClasses(ctx context.Context, userID string) ([]models.Class, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, user_id, name, color, grade_k, grade_m, grade_t, grade_s, average, last_used
		 FROM %s WHERE user_id = $1 ORDER BY id`, s.classes),
		userID)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var out []models.Class
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color,
			&c.GradeK, &c.GradeM, &c.GradeT, &c.GradeS, &c.Average, &c.LastUsed); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateClass(ctx context.Context, c *models.Class) (int64, error) {
	c.LastUsed = time.Now().UTC()
	var id int64
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, name, color, grade_k, grade_m, grade_t, grade_s, last_used)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`, s.classes),
		c.UserID, c.Name, c.Color, c.GradeK, c.GradeM, c.GradeT, c.GradeS, c.LastUsed,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create class: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ClassByID(ctx context.Context, id int64) (*models.Class, error) {
	var c models.Class
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, user_id, name, color, grade_k, grade_m, grade_t, grade_s, average, last_used
		 FROM %s WHERE id = $1`, s.classes),
		id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color,
		&c.GradeK, &c.GradeM, &c.GradeT, &c.GradeS, &c.Average, &c.LastUsed)
	if err != nil {
		return nil, wrap("class by id", err)
	}
	return &c, nil
}

// UpdateClass persists the merged working copy as one atomic update.
func (s *PostgresStore) UpdateClass(ctx context.Context, c *models.Class) error {
	_, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1, color = $2, grade_k = $3, grade_m = $4,
		 grade_t = $5, grade_s = $6, average = $7 WHERE id = $8`, s.classes),
		c.Name, c.Color, c.GradeK, c.GradeM, c.GradeT, c.GradeS, c.Average, c.ID)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteClass(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.classes), id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// ── Homework ─────────────────────────────────────────────

func (s *PostgresStore) ListHomework(ctx context.Context, userID string) ([]models.Homework, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT entry_id, user_id, class, deadline, given, text, type, status
		 FROM %s WHERE user_id = $1 ORDER BY entry_id`, s.homework),
		userID)
	if err != nil {
		return nil, fmt.Errorf("list homework: %w", err)
	}
	defer rows.Close()

	var out []models.Homework
	for rows.Next() {
		h, err := scanHomework(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateHomework(ctx context.Context, h *models.Homework) (int64, error) {
	deadline, err := time.Parse(deadlineFormat, h.Deadline)
	if err != nil {
		return 0, fmt.Errorf("create homework: %w", err)
	}
	h.Given = time.Now().UTC()
	var id int64
	err = s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, class, deadline, given, text, type, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING entry_id`, s.homework),
		h.UserID, h.ClassID, deadline, h.Given, h.Text, h.Type, h.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create homework: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) HomeworkByID(ctx context.Context, entryID int64) (*models.Homework, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT entry_id, user_id, class, deadline, given, text, type, status
		 FROM %s WHERE entry_id = $1`, s.homework),
		entryID)
	h, err := scanHomework(row)
	if err != nil {
		return nil, wrap("homework by id", err)
	}
	return h, nil
}

func (s *PostgresStore) UpdateHomework(ctx context.Context, h *models.Homework) error {
	deadline, err := time.Parse(deadlineFormat, h.Deadline)
	if err != nil {
		return fmt.Errorf("update homework: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET class = $1, deadline = $2, text = $3, type = $4, status = $5
		 WHERE entry_id = $6`, s.homework),
		h.ClassID, deadline, h.Text, h.Type, h.Status, h.EntryID)
	if err != nil {
		return fmt.Errorf("update homework: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteHomework(ctx context.Context, entryID int64) error {
	_, err := s.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE entry_id = $1`, s.homework), entryID)
	if err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	return nil
}

func scanHomework(row pgx.Row) (*models.Homework, error) {
	var h models.Homework
	var deadline time.Time
	if err := row.Scan(&h.EntryID, &h.UserID, &h.ClassID, &deadline,
		&h.Given, &h.Text, &h.Type, &h.Status); err != nil {
		return nil, err
	}
	h.Deadline = deadline.Format(deadlineFormat)
	return &h, nil
}

func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
