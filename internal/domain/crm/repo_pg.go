package crm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// translateErr maps driver errors to domain errors. conflictMsg is used
// when the error is a unique-constraint violation.
func translateErr(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &ConflictError{Message: conflictMsg}
	}
	return err
}

// orderClause builds an ORDER BY from a sort parameter like "name" or
// "-created_at", restricted to the given sortable columns.
func orderClause(sort string, sortable map[string]bool) string {
	dir := "ASC"
	col := sort
	if len(sort) > 0 && sort[0] == '-' {
		dir = "DESC"
		col = sort[1:]
	}
	if !sortable[col] {
		return " ORDER BY created_at DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

// =========== Prospect Repository ===========

type prospectRepoPG struct{ pool *pgxpool.Pool }

func NewProspectRepoPG(pool *pgxpool.Pool) ProspectRepository { return &prospectRepoPG{pool: pool} }

const prospectCols = `id, first_name, last_name, email, phone, status, source, notes, created_at, updated_at`

var prospectSortable = map[string]bool{
	"first_name": true, "last_name": true, "status": true, "created_at": true, "updated_at": true,
}

func scanProspect(row pgx.Row) (*Prospect, error) {
	var p Prospect
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.Status, &p.Source, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *prospectRepoPG) Create(ctx context.Context, p *Prospect) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO prospects (id, first_name, last_name, email, phone, status, source, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.Status, p.Source, p.Notes).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return translateErr(err, "prospect already exists")
}

func (r *prospectRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prospect, error) {
	p, err := scanProspect(r.pool.QueryRow(ctx, `SELECT `+prospectCols+` FROM prospects WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err, "")
	}
	return p, nil
}

func (r *prospectRepoPG) Update(ctx context.Context, p *Prospect) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE prospects SET first_name=$2, last_name=$3, email=$4, phone=$5,
			status=$6, source=$7, notes=$8, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.Status, p.Source, p.Notes).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return translateErr(err, "prospect already exists")
}

func (r *prospectRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *prospectRepoPG) List(ctx context.Context, filters map[string]string, sort string, limit, offset int) ([]*Prospect, int, error) {
	query := `SELECT ` + prospectCols + ` FROM prospects WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM prospects WHERE 1=1`
	var args []interface{}
	idx := 1

	if v, ok := filters["status"]; ok {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := filters["source"]; ok {
		query += fmt.Sprintf(` AND source = $%d`, idx)
		countQuery += fmt.Sprintf(` AND source = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := filters["search"]; ok {
		query += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)`, idx, idx, idx)
		countQuery += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)`, idx, idx, idx)
		args = append(args, "%"+v+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += orderClause(sort, prospectSortable)
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prospect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== Campaign Repository ===========

type campaignRepoPG struct{ pool *pgxpool.Pool }

func NewCampaignRepoPG(pool *pgxpool.Pool) CampaignRepository { return &campaignRepoPG{pool: pool} }

const campaignCols = `id, name, channel, status, description, start_date, end_date, created_at, updated_at`

var campaignSortable = map[string]bool{
	"name": true, "status": true, "start_date": true, "created_at": true, "updated_at": true,
}

func scanCampaign(row pgx.Row) (*Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Channel, &c.Status, &c.Description,
		&c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *campaignRepoPG) Create(ctx context.Context, c *Campaign) error {
	c.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (id, name, channel, status, description, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Channel, c.Status, c.Description, c.StartDate, c.EndDate).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return translateErr(err, "campaign already exists")
}

func (r *campaignRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignCols+` FROM campaigns WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err, "")
	}
	return c, nil
}

func (r *campaignRepoPG) Update(ctx context.Context, c *Campaign) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE campaigns SET name=$2, channel=$3, status=$4, description=$5,
			start_date=$6, end_date=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Channel, c.Status, c.Description, c.StartDate, c.EndDate).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return translateErr(err, "campaign already exists")
}

func (r *campaignRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *campaignRepoPG) List(ctx context.Context, filters map[string]string, sort string, limit, offset int) ([]*Campaign, int, error) {
	query := `SELECT ` + campaignCols + ` FROM campaigns WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	var args []interface{}
	idx := 1

	if v, ok := filters["status"]; ok {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := filters["channel"]; ok {
		query += fmt.Sprintf(` AND channel = $%d`, idx)
		countQuery += fmt.Sprintf(` AND channel = $%d`, idx)
		args = append(args, v)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += orderClause(sort, campaignSortable)
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

// =========== Tag Repository ===========

type tagRepoPG struct{ pool *pgxpool.Pool }

func NewTagRepoPG(pool *pgxpool.Pool) TagRepository { return &tagRepoPG{pool: pool} }

const tagCols = `id, name, color, created_at, updated_at`

func scanTag(row pgx.Row) (*Tag, error) {
	var t Tag
	err := row.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *tagRepoPG) Create(ctx context.Context, t *Tag) error {
	t.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tags (id, name, color)
		VALUES ($1,$2,$3)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Color).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	return translateErr(err, fmt.Sprintf("tag %q already exists", t.Name))
}

func (r *tagRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Tag, error) {
	t, err := scanTag(r.pool.QueryRow(ctx, `SELECT `+tagCols+` FROM tags WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err, "")
	}
	return t, nil
}

func (r *tagRepoPG) Update(ctx context.Context, t *Tag) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE tags SET name=$2, color=$3, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Color).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	return translateErr(err, fmt.Sprintf("tag %q already exists", t.Name))
}

func (r *tagRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tagRepoPG) List(ctx context.Context, limit, offset int) ([]*Tag, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tags`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+tagCols+` FROM tags ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, nil
}

// =========== Profile Repository ===========

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository { return &profileRepoPG{pool: pool} }

const profileCols = `id, full_name, email, role, phone, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Role, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *profileRepoPG) Create(ctx context.Context, p *Profile) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, full_name, email, role, phone)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		p.ID, p.FullName, p.Email, p.Role, p.Phone).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return translateErr(err, fmt.Sprintf("profile with email %q already exists", p.Email))
}

func (r *profileRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err, "")
	}
	return p, nil
}

func (r *profileRepoPG) Update(ctx context.Context, p *Profile) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE profiles SET full_name=$2, email=$3, role=$4, phone=$5, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.FullName, p.Email, p.Role, p.Phone).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return translateErr(err, fmt.Sprintf("profile with email %q already exists", p.Email))
}

func (r *profileRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *profileRepoPG) List(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+profileCols+` FROM profiles ORDER BY full_name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== ProspectCampaign Repository ===========

type prospectCampaignRepoPG struct{ pool *pgxpool.Pool }

func NewProspectCampaignRepoPG(pool *pgxpool.Pool) ProspectCampaignRepository {
	return &prospectCampaignRepoPG{pool: pool}
}

const prospectCampaignCols = `id, prospect_id, campaign_id, status, created_at, updated_at`

func scanProspectCampaign(row pgx.Row) (*ProspectCampaign, error) {
	var pc ProspectCampaign
	err := row.Scan(&pc.ID, &pc.ProspectID, &pc.CampaignID, &pc.Status, &pc.CreatedAt, &pc.UpdatedAt)
	return &pc, err
}

func (r *prospectCampaignRepoPG) Create(ctx context.Context, pc *ProspectCampaign) error {
	pc.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO prospect_campaigns (id, prospect_id, campaign_id, status)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		pc.ID, pc.ProspectID, pc.CampaignID, pc.Status).
		Scan(&pc.CreatedAt, &pc.UpdatedAt)
	return translateErr(err, "prospect is already enrolled in this campaign")
}

func (r *prospectCampaignRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ProspectCampaign, error) {
	pc, err := scanProspectCampaign(r.pool.QueryRow(ctx,
		`SELECT `+prospectCampaignCols+` FROM prospect_campaigns WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err, "")
	}
	return pc, nil
}

func (r *prospectCampaignRepoPG) Update(ctx context.Context, pc *ProspectCampaign) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE prospect_campaigns SET status=$2, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		pc.ID, pc.Status).
		Scan(&pc.CreatedAt, &pc.UpdatedAt)
	return translateErr(err, "prospect is already enrolled in this campaign")
}

func (r *prospectCampaignRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prospect_campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *prospectCampaignRepoPG) List(ctx context.Context, filters map[string]string, limit, offset int) ([]*ProspectCampaign, int, error) {
	query := `SELECT ` + prospectCampaignCols + ` FROM prospect_campaigns WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM prospect_campaigns WHERE 1=1`
	var args []interface{}
	idx := 1

	if v, ok := filters["prospect_id"]; ok {
		query += fmt.Sprintf(` AND prospect_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND prospect_id = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := filters["campaign_id"]; ok {
		query += fmt.Sprintf(` AND campaign_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND campaign_id = $%d`, idx)
		args = append(args, v)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ProspectCampaign
	for rows.Next() {
		pc, err := scanProspectCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pc)
	}
	return items, total, nil
}

// =========== ProspectTag Repository ===========

type prospectTagRepoPG struct{ pool *pgxpool.Pool }

func NewProspectTagRepoPG(pool *pgxpool.Pool) ProspectTagRepository {
	return &prospectTagRepoPG{pool: pool}
}

const prospectTagCols = `id, prospect_id, tag_id, created_at, updated_at`

func scanProspectTag(row pgx.Row) (*ProspectTag, error) {
	var pt ProspectTag
	err := row.Scan(&pt.ID, &pt.ProspectID, &pt.TagID, &pt.CreatedAt, &pt.UpdatedAt)
	return &pt, err
}

func (r *prospectTagRepoPG) Create(ctx context.Context, pt *ProspectTag) error {
	pt.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO prospect_tags (id, prospect_id, tag_id)
		VALUES ($1,$2,$3)
		RETURNING created_at, updated_at`,
		pt.ID, pt.ProspectID, pt.TagID).
		Scan(&pt.CreatedAt, &pt.UpdatedAt)
	return translateErr(err, "prospect already carries this tag")
}

func (r *prospectTagRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ProspectTag, error) {
	pt, err := scanProspectTag(r.pool.QueryRow(ctx,
		`SELECT `+prospectTagCols+` FROM prospect_tags WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err, "")
	}
	return pt, nil
}

func (r *prospectTagRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prospect_tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *prospectTagRepoPG) List(ctx context.Context, filters map[string]string, limit, offset int) ([]*ProspectTag, int, error) {
	query := `SELECT ` + prospectTagCols + ` FROM prospect_tags WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM prospect_tags WHERE 1=1`
	var args []interface{}
	idx := 1

	if v, ok := filters["prospect_id"]; ok {
		query += fmt.Sprintf(` AND prospect_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND prospect_id = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := filters["tag_id"]; ok {
		query += fmt.Sprintf(` AND tag_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND tag_id = $%d`, idx)
		args = append(args, v)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ProspectTag
	for rows.Next() {
		pt, err := scanProspectTag(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pt)
	}
	return items, total, nil
}
