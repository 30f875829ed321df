// Package postgres implements the storage interfaces on top of PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/ombrage/campground/internal/app/domain/booking"
	"github.com/ombrage/campground/internal/app/domain/campsite"
	"github.com/ombrage/campground/internal/app/domain/event"
	"github.com/ombrage/campground/internal/app/domain/inventory"
	"github.com/ombrage/campground/internal/app/domain/order"
	"github.com/ombrage/campground/internal/app/domain/product"
	"github.com/ombrage/campground/internal/app/domain/user"
	"github.com/ombrage/campground/internal/app/storage"
)

// Store is a PostgreSQL-backed implementation of the storage interfaces.
type Store struct {
	db *sqlx.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.CampsiteStore = (*Store)(nil)
var _ storage.BookingStore = (*Store)(nil)
var _ storage.InventoryStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.EventStore = (*Store)(nil)

// New opens a connection pool for the given DSN and verifies connectivity.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an existing connection pool. Used by tests.
func NewFromDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying pool for migrations.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func toNullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func fromNullString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return err
}

// Users -----------------------------------------------------------------------

type userRow struct {
	ID           string         `db:"user_id"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Email        sql.NullString `db:"email"`
	Phone        sql.NullString `db:"phone"`
	PasswordHash string         `db:"password_hash"`
	Role         int            `db:"role"`
	Locale       sql.NullString `db:"locale"`
	CreatedAt    time.Time      `db:"created_at"`
	DeleteDate   sql.NullTime   `db:"delete_date"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        fromNullString(r.Email),
		Phone:        fromNullString(r.Phone),
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		Locale:       fromNullString(r.Locale),
		CreatedAt:    r.CreatedAt,
		DeleteDate:   fromNullTime(r.DeleteDate),
	}
}

const userColumns = `user_id, first_name, last_name, email, phone, password_hash, role, locale, created_at, delete_date`

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, first_name, last_name, email, phone, password_hash, role, locale, created_at, delete_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.FirstName, u.LastName, toNullString(u.Email), toNullString(u.Phone),
		u.PasswordHash, int(u.Role), toNullString(u.Locale), u.CreatedAt, toNullTime(u.DeleteDate))
	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, phone = $5,
		    password_hash = $6, role = $7, locale = $8, delete_date = $9
		WHERE user_id = $1`,
		u.ID, u.FirstName, u.LastName, toNullString(u.Email), toNullString(u.Phone),
		u.PasswordHash, int(u.Role), toNullString(u.Locale), toNullTime(u.DeleteDate))
	if err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	return s.GetUser(ctx, u.ID)
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	if err != nil {
		return user.User{}, notFound(err, "user", id)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return user.User{}, notFound(err, "user with email", email)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	if err != nil {
		return user.User{}, notFound(err, "user with phone", phone)
	}
	return row.toDomain(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	err := s.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	result := make([]user.User, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// Campsites -------------------------------------------------------------------

type campsiteRow struct {
	ID          string         `db:"campsite_id"`
	Name        string         `db:"name"`
	Type        sql.NullString `db:"type"`
	Description sql.NullString `db:"description"`
	Status      sql.NullString `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r campsiteRow) toDomain() campsite.Campsite {
	return campsite.Campsite{
		ID:          r.ID,
		Name:        r.Name,
		Type:        fromNullString(r.Type),
		Description: fromNullString(r.Description),
		Status:      fromNullString(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

func (s *Store) CreateCampsite(ctx context.Context, cs campsite.Campsite) (campsite.Campsite, error) {
	if cs.ID == "" {
		cs.ID = uuid.NewString()
	}
	cs.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO campsites (campsite_id, name, type, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		cs.ID, cs.Name, toNullString(cs.Type), toNullString(cs.Description), toNullString(cs.Status), cs.CreatedAt)
	if err != nil {
		return campsite.Campsite{}, fmt.Errorf("insert campsite: %w", err)
	}
	return cs, nil
}

func (s *Store) UpdateCampsite(ctx context.Context, cs campsite.Campsite) (campsite.Campsite, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE campsites
		SET name = $2, type = $3, description = $4, status = $5
		WHERE campsite_id = $1`,
		cs.ID, cs.Name, toNullString(cs.Type), toNullString(cs.Description), toNullString(cs.Status))
	if err != nil {
		return campsite.Campsite{}, fmt.Errorf("update campsite: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return campsite.Campsite{}, fmt.Errorf("campsite %s: %w", cs.ID, storage.ErrNotFound)
	}
	return s.GetCampsite(ctx, cs.ID)
}

func (s *Store) GetCampsite(ctx context.Context, id string) (campsite.Campsite, error) {
	var row campsiteRow
	err := s.db.GetContext(ctx, &row, `
		SELECT campsite_id, name, type, description, status, created_at
		FROM campsites WHERE campsite_id = $1`, id)
	if err != nil {
		return campsite.Campsite{}, notFound(err, "campsite", id)
	}
	return row.toDomain(), nil
}

func (s *Store) ListCampsites(ctx context.Context) ([]campsite.Campsite, error) {
	var rows []campsiteRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT campsite_id, name, type, description, status, created_at
		FROM campsites ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list campsites: %w", err)
	}
	result := make([]campsite.Campsite, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (s *Store) DeleteCampsite(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM campsites WHERE campsite_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campsite: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("campsite %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) CampsiteExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM campsites WHERE campsite_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("campsite exists: %w", err)
	}
	return exists, nil
}

// Bookings --------------------------------------------------------------------

type bookingRow struct {
	ID            string         `db:"booking_id"`
	CampsiteID    string         `db:"campsite_id"`
	UserID        sql.NullString `db:"user_id"`
	Email         sql.NullString `db:"email"`
	Phone         sql.NullString `db:"phone"`
	StartDate     time.Time      `db:"start_date"`
	EndDate       time.Time      `db:"end_date"`
	ResName       string         `db:"res_name"`
	BookingNumber string         `db:"booking_number"`
	InventoryID   sql.NullString `db:"inventory_id"`
	CreatedAt     time.Time      `db:"created_at"`
	DeleteDate    sql.NullTime   `db:"delete_date"`
	CampsiteName  sql.NullString `db:"campsite_name"`
}

func (r bookingRow) toDomain() booking.Booking {
	return booking.Booking{
		ID:            r.ID,
		CampsiteID:    r.CampsiteID,
		UserID:        fromNullString(r.UserID),
		Email:         fromNullString(r.Email),
		Phone:         fromNullString(r.Phone),
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		ResName:       r.ResName,
		BookingNumber: r.BookingNumber,
		InventoryID:   fromNullString(r.InventoryID),
		CreatedAt:     r.CreatedAt,
		DeleteDate:    fromNullTime(r.DeleteDate),
	}
}

const bookingColumns = `b.booking_id, b.campsite_id, b.user_id, b.email, b.phone,
	b.start_date, b.end_date, b.res_name, b.booking_number, b.inventory_id,
	b.created_at, b.delete_date`

func (s *Store) CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (booking_id, campsite_id, user_id, email, phone, start_date, end_date,
		                      res_name, booking_number, inventory_id, created_at, delete_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.CampsiteID, toNullString(b.UserID), toNullString(b.Email), toNullString(b.Phone),
		b.StartDate, b.EndDate, b.ResName, b.BookingNumber, toNullString(b.InventoryID),
		b.CreatedAt, toNullTime(b.DeleteDate))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (s *Store) UpdateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings
		SET campsite_id = $2, user_id = $3, email = $4, phone = $5, start_date = $6,
		    end_date = $7, res_name = $8, booking_number = $9, inventory_id = $10, delete_date = $11
		WHERE booking_id = $1`,
		b.ID, b.CampsiteID, toNullString(b.UserID), toNullString(b.Email), toNullString(b.Phone),
		b.StartDate, b.EndDate, b.ResName, b.BookingNumber, toNullString(b.InventoryID), toNullTime(b.DeleteDate))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("update booking: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return booking.Booking{}, fmt.Errorf("booking %s: %w", b.ID, storage.ErrNotFound)
	}
	got, err := s.GetBooking(ctx, b.ID)
	if err != nil {
		return booking.Booking{}, err
	}
	return got.Booking, nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (booking.WithCampsite, error) {
	var row bookingRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+bookingColumns+`, c.name AS campsite_name
		FROM bookings b
		LEFT JOIN campsites c ON c.campsite_id = b.campsite_id
		WHERE b.booking_id = $1`, id)
	if err != nil {
		return booking.WithCampsite{}, notFound(err, "booking", id)
	}
	return booking.WithCampsite{Booking: row.toDomain(), CampsiteName: fromNullString(row.CampsiteName)}, nil
}

func (s *Store) ListActiveBookings(ctx context.Context) ([]booking.WithCampsite, error) {
	var rows []bookingRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+bookingColumns+`, c.name AS campsite_name
		FROM bookings b
		LEFT JOIN campsites c ON c.campsite_id = b.campsite_id
		WHERE b.delete_date IS NULL
		ORDER BY b.start_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	result := make([]booking.WithCampsite, 0, len(rows))
	for _, row := range rows {
		result = append(result, booking.WithCampsite{Booking: row.toDomain(), CampsiteName: fromNullString(row.CampsiteName)})
	}
	return result, nil
}

func (s *Store) BookingExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("booking exists: %w", err)
	}
	return exists, nil
}

func (s *Store) BookingNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_number = $1)`, number)
	if err != nil {
		return false, fmt.Errorf("booking number exists: %w", err)
	}
	return exists, nil
}

func (s *Store) FindOverlapping(ctx context.Context, campsiteID string, start, end time.Time) ([]booking.Booking, error) {
	var rows []bookingRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+bookingColumns+`
		FROM bookings b
		WHERE b.campsite_id = $1
		  AND b.delete_date IS NULL
		  AND b.start_date < $3
		  AND b.end_date > $2`,
		campsiteID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	result := make([]booking.Booking, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (s *Store) FindBookingByNameAndNumber(ctx context.Context, resName, number string) (booking.Booking, error) {
	var row bookingRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+bookingColumns+`
		FROM bookings b
		WHERE b.res_name = $1 AND b.booking_number = $2 AND b.delete_date IS NULL`,
		resName, number)
	if err != nil {
		return booking.Booking{}, notFound(err, "booking for", resName+"/"+number)
	}
	return row.toDomain(), nil
}

func (s *Store) SetBookingLastInventory(ctx context.Context, bookingID, inventoryID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE bookings SET inventory_id = $2 WHERE booking_id = $1`,
		bookingID, toNullString(inventoryID))
	if err != nil {
		return fmt.Errorf("set booking inventory: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DetachBookingLastInventory(ctx context.Context, inventoryID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE bookings SET inventory_id = NULL WHERE inventory_id = $1`, inventoryID)
	if err != nil {
		return fmt.Errorf("detach booking inventory: %w", err)
	}
	return nil
}

// Inventories -----------------------------------------------------------------

type inventoryRow struct {
	ID           string         `db:"inventory_id"`
	CampsiteID   string         `db:"campsite_id"`
	BookingID    sql.NullString `db:"booking_id"`
	Type         string         `db:"type"`
	Comment      sql.NullString `db:"comment"`
	CreatedAt    time.Time      `db:"created_at"`
	ResName      sql.NullString `db:"res_name"`
	CampsiteName sql.NullString `db:"campsite_name"`
	ItemsCount   int            `db:"items_count"`
}

func (r inventoryRow) toDomain() inventory.Inventory {
	return inventory.Inventory{
		ID:         r.ID,
		CampsiteID: r.CampsiteID,
		BookingID:  fromNullString(r.BookingID),
		Type:       inventory.Type(r.Type),
		Comment:    fromNullString(r.Comment),
		CreatedAt:  r.CreatedAt,
	}
}

func (r inventoryRow) toMeta() inventory.WithMeta {
	out := inventory.WithMeta{
		Inventory:    r.toDomain(),
		CampsiteName: fromNullString(r.CampsiteName),
		ItemsCount:   r.ItemsCount,
	}
	if r.BookingID.Valid {
		out.Booking = &inventory.BookingRef{BookingID: r.BookingID.String, ResName: fromNullString(r.ResName)}
	}
	return out
}

type inventoryItemRow struct {
	ID          string         `db:"item_id"`
	InventoryID string         `db:"inventory_id"`
	Name        string         `db:"name"`
	Quantity    int            `db:"quantity"`
	Condition   sql.NullString `db:"condition"`
}

const inventoryMetaQuery = `
	SELECT i.inventory_id, i.campsite_id, i.booking_id, i.type, i.comment, i.created_at,
	       b.res_name AS res_name, c.name AS campsite_name,
	       (SELECT count(*) FROM inventory_items it WHERE it.inventory_id = i.inventory_id) AS items_count
	FROM inventories i
	LEFT JOIN bookings b ON b.booking_id = i.booking_id
	LEFT JOIN campsites c ON c.campsite_id = i.campsite_id`

func (s *Store) CreateInventory(ctx context.Context, inv inventory.Inventory) (inventory.Inventory, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	inv.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return inventory.Inventory{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventories (inventory_id, campsite_id, booking_id, type, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		inv.ID, inv.CampsiteID, toNullString(inv.BookingID), string(inv.Type), toNullString(inv.Comment), inv.CreatedAt)
	if err != nil {
		return inventory.Inventory{}, fmt.Errorf("insert inventory: %w", err)
	}
	if err := insertInventoryItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return inventory.Inventory{}, err
	}
	if err := tx.Commit(); err != nil {
		return inventory.Inventory{}, fmt.Errorf("commit inventory: %w", err)
	}
	return s.getInventoryPlain(ctx, inv.ID)
}

func (s *Store) UpdateInventory(ctx context.Context, inv inventory.Inventory, replaceItems bool) (inventory.Inventory, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return inventory.Inventory{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE inventories
		SET campsite_id = $2, booking_id = $3, type = $4, comment = $5
		WHERE inventory_id = $1`,
		inv.ID, inv.CampsiteID, toNullString(inv.BookingID), string(inv.Type), toNullString(inv.Comment))
	if err != nil {
		return inventory.Inventory{}, fmt.Errorf("update inventory: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return inventory.Inventory{}, fmt.Errorf("inventory %s: %w", inv.ID, storage.ErrNotFound)
	}
	if replaceItems {
		if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE inventory_id = $1`, inv.ID); err != nil {
			return inventory.Inventory{}, fmt.Errorf("clear inventory items: %w", err)
		}
		if err := insertInventoryItems(ctx, tx, inv.ID, inv.Items); err != nil {
			return inventory.Inventory{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return inventory.Inventory{}, fmt.Errorf("commit inventory: %w", err)
	}
	return s.getInventoryPlain(ctx, inv.ID)
}

func insertInventoryItems(ctx context.Context, tx *sqlx.Tx, inventoryID string, items []inventory.Item) error {
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_items (item_id, inventory_id, name, quantity, condition)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, inventoryID, it.Name, it.Quantity, toNullString(it.Condition))
		if err != nil {
			return fmt.Errorf("insert inventory item: %w", err)
		}
	}
	return nil
}

// DeleteInventory clears dangling booking pointers and removes the inventory
// and its items in a single transaction.
func (s *Store) DeleteInventory(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET inventory_id = NULL WHERE inventory_id = $1`, id); err != nil {
		return fmt.Errorf("detach bookings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE inventory_id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory items: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM inventories WHERE inventory_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("inventory %s: %w", id, storage.ErrNotFound)
	}
	return tx.Commit()
}

func (s *Store) GetInventory(ctx context.Context, id string) (inventory.WithMeta, error) {
	var row inventoryRow
	err := s.db.GetContext(ctx, &row, inventoryMetaQuery+` WHERE i.inventory_id = $1`, id)
	if err != nil {
		return inventory.WithMeta{}, notFound(err, "inventory", id)
	}
	meta := row.toMeta()
	items, err := s.inventoryItems(ctx, id)
	if err != nil {
		return inventory.WithMeta{}, err
	}
	meta.Items = items
	return meta, nil
}

func (s *Store) getInventoryPlain(ctx context.Context, id string) (inventory.Inventory, error) {
	meta, err := s.GetInventory(ctx, id)
	if err != nil {
		return inventory.Inventory{}, err
	}
	return meta.Inventory, nil
}

func (s *Store) inventoryItems(ctx context.Context, inventoryID string) ([]inventory.Item, error) {
	var rows []inventoryItemRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT item_id, inventory_id, name, quantity, condition
		FROM inventory_items WHERE inventory_id = $1 ORDER BY name ASC`, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	items := make([]inventory.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, inventory.Item{
			ID:          row.ID,
			InventoryID: row.InventoryID,
			Name:        row.Name,
			Quantity:    row.Quantity,
			Condition:   fromNullString(row.Condition),
		})
	}
	return items, nil
}

func (s *Store) ListInventories(ctx context.Context) ([]inventory.WithMeta, error) {
	var rows []inventoryRow
	err := s.db.SelectContext(ctx, &rows, inventoryMetaQuery+` ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	result := make([]inventory.WithMeta, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toMeta())
	}
	return result, nil
}

func (s *Store) ListInventoriesByBooking(ctx context.Context, bookingID string) ([]inventory.WithMeta, error) {
	var rows []inventoryRow
	err := s.db.SelectContext(ctx, &rows, inventoryMetaQuery+` WHERE i.booking_id = $1 ORDER BY i.created_at DESC`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list inventories by booking: %w", err)
	}
	result := make([]inventory.WithMeta, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toMeta())
	}
	return result, nil
}

func (s *Store) LastInventoryForCampsite(ctx context.Context, campsiteID, excludeID string) (inventory.Inventory, error) {
	var row inventoryRow
	err := s.db.GetContext(ctx, &row, `
		SELECT i.inventory_id, i.campsite_id, i.booking_id, i.type, i.comment, i.created_at
		FROM inventories i
		WHERE i.campsite_id = $1 AND ($2 = '' OR i.inventory_id <> $2)
		ORDER BY i.created_at DESC
		LIMIT 1`, campsiteID, excludeID)
	if err != nil {
		return inventory.Inventory{}, notFound(err, "inventory for campsite", campsiteID)
	}
	return row.toDomain(), nil
}

// Orders ----------------------------------------------------------------------

type orderRow struct {
	ID        string    `db:"order_id"`
	BookingID string    `db:"booking_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type orderItemRow struct {
	ID        string          `db:"item_id"`
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	Quantity  int             `db:"quantity"`
	Name      sql.NullString  `db:"name"`
	Category  sql.NullString  `db:"category"`
	Unit      sql.NullString  `db:"unit"`
	Price     sql.NullFloat64 `db:"price"`
	Available sql.NullBool    `db:"available"`
}

func (s *Store) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = order.StatusReceived
	}
	o.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return order.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, booking_id, status, created_at)
		VALUES ($1, $2, $3, $4)`,
		o.ID, o.BookingID, string(o.Status), o.CreatedAt)
	if err != nil {
		return order.Order{}, fmt.Errorf("insert order: %w", err)
	}
	if err := insertOrderItems(ctx, tx, o.ID, o.Items); err != nil {
		return order.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return order.Order{}, fmt.Errorf("commit order: %w", err)
	}
	return s.GetOrder(ctx, o.ID)
}

func (s *Store) UpdateOrder(ctx context.Context, o order.Order, replaceItems bool) (order.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return order.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET booking_id = $2, status = $3 WHERE order_id = $1`,
		o.ID, o.BookingID, string(o.Status))
	if err != nil {
		return order.Order{}, fmt.Errorf("update order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.Order{}, fmt.Errorf("order %s: %w", o.ID, storage.ErrNotFound)
	}
	if replaceItems {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
			return order.Order{}, fmt.Errorf("clear order items: %w", err)
		}
		if err := insertOrderItems(ctx, tx, o.ID, o.Items); err != nil {
			return order.Order{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return order.Order{}, fmt.Errorf("commit order: %w", err)
	}
	return s.GetOrder(ctx, o.ID)
}

func insertOrderItems(ctx context.Context, tx *sqlx.Tx, orderID string, items []order.Item) error {
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (item_id, order_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			it.ID, orderID, it.ProductID, it.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (order.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row, `
		SELECT order_id, booking_id, status, created_at FROM orders WHERE order_id = $1`, id)
	if err != nil {
		return order.Order{}, notFound(err, "order", id)
	}
	o := order.Order{ID: row.ID, BookingID: row.BookingID, Status: order.Status(row.Status), CreatedAt: row.CreatedAt}
	items, err := s.orderItems(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (s *Store) orderItems(ctx context.Context, orderID string) ([]order.Item, error) {
	var rows []orderItemRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT oi.item_id, oi.order_id, oi.product_id, oi.quantity,
		       p.name, p.category, p.unit, p.price, p.available
		FROM order_items oi
		LEFT JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	items := make([]order.Item, 0, len(rows))
	for _, row := range rows {
		it := order.Item{ID: row.ID, OrderID: row.OrderID, ProductID: row.ProductID, Quantity: row.Quantity}
		if row.Name.Valid {
			it.Product = &product.Product{
				ID:        row.ProductID,
				Name:      row.Name.String,
				Category:  fromNullString(row.Category),
				Unit:      fromNullString(row.Unit),
				Price:     row.Price.Float64,
				Available: row.Available.Bool,
			}
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]order.Order, error) {
	return s.listOrders(ctx, `SELECT order_id, booking_id, status, created_at FROM orders ORDER BY created_at DESC`)
}

func (s *Store) ListOrdersByBooking(ctx context.Context, bookingID string) ([]order.Order, error) {
	return s.listOrders(ctx,
		`SELECT order_id, booking_id, status, created_at FROM orders WHERE booking_id = $1 ORDER BY created_at DESC`,
		bookingID)
}

func (s *Store) listOrders(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	var rows []orderRow
	err := s.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	result := make([]order.Order, 0, len(rows))
	for _, row := range rows {
		o := order.Order{ID: row.ID, BookingID: row.BookingID, Status: order.Status(row.Status), CreatedAt: row.CreatedAt}
		items, err := s.orderItems(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
		result = append(result, o)
	}
	return result, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("order %s: %w", id, storage.ErrNotFound)
	}
	return tx.Commit()
}

// Products --------------------------------------------------------------------

type productRow struct {
	ID        string         `db:"product_id"`
	Name      string         `db:"name"`
	Category  sql.NullString `db:"category"`
	Unit      sql.NullString `db:"unit"`
	Price     float64        `db:"price"`
	Available bool           `db:"available"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r productRow) toDomain() product.Product {
	return product.Product{
		ID:        r.ID,
		Name:      r.Name,
		Category:  fromNullString(r.Category),
		Unit:      fromNullString(r.Unit),
		Price:     r.Price,
		Available: r.Available,
		CreatedAt: r.CreatedAt,
	}
}

func (s *Store) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (product_id, name, category, unit, price, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, toNullString(p.Category), toNullString(p.Unit), p.Price, p.Available, p.CreatedAt)
	if err != nil {
		return product.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category = $3, unit = $4, price = $5, available = $6
		WHERE product_id = $1`,
		p.ID, p.Name, toNullString(p.Category), toNullString(p.Unit), p.Price, p.Available)
	if err != nil {
		return product.Product{}, fmt.Errorf("update product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return product.Product{}, fmt.Errorf("product %s: %w", p.ID, storage.ErrNotFound)
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *Store) GetProduct(ctx context.Context, id string) (product.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `
		SELECT product_id, name, category, unit, price, available, created_at
		FROM products WHERE product_id = $1`, id)
	if err != nil {
		return product.Product{}, notFound(err, "product", id)
	}
	return row.toDomain(), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]product.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT product_id, name, category, unit, price, available, created_at
		FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	result := make([]product.Product, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) FindAvailableProducts(ctx context.Context, ids []string) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}
	query, args, err := sqlx.In(`
		SELECT product_id, name, category, unit, price, available, created_at
		FROM products WHERE available = TRUE AND product_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	query = s.db.Rebind(query)

	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find available products: %w", err)
	}
	result := make([]product.Product, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// Events ----------------------------------------------------------------------

type eventRow struct {
	ID            string         `db:"event_id"`
	Title         string         `db:"title"`
	Description   sql.NullString `db:"description"`
	StartDatetime time.Time      `db:"start_datetime"`
	EndDatetime   time.Time      `db:"end_datetime"`
	Location      sql.NullString `db:"location"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (r eventRow) toDomain() event.Event {
	return event.Event{
		ID:            r.ID,
		Title:         r.Title,
		Description:   fromNullString(r.Description),
		StartDatetime: r.StartDatetime,
		EndDatetime:   r.EndDatetime,
		Location:      fromNullString(r.Location),
		CreatedAt:     r.CreatedAt,
	}
}

func (s *Store) CreateEvent(ctx context.Context, ev event.Event) (event.Event, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (event_id, title, description, start_datetime, end_datetime, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.Title, toNullString(ev.Description), ev.StartDatetime, ev.EndDatetime, toNullString(ev.Location), ev.CreatedAt)
	if err != nil {
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return ev, nil
}

func (s *Store) UpdateEvent(ctx context.Context, ev event.Event) (event.Event, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET title = $2, description = $3, start_datetime = $4, end_datetime = $5, location = $6
		WHERE event_id = $1`,
		ev.ID, ev.Title, toNullString(ev.Description), ev.StartDatetime, ev.EndDatetime, toNullString(ev.Location))
	if err != nil {
		return event.Event{}, fmt.Errorf("update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.Event{}, fmt.Errorf("event %s: %w", ev.ID, storage.ErrNotFound)
	}
	return s.GetEvent(ctx, ev.ID)
}

func (s *Store) GetEvent(ctx context.Context, id string) (event.Event, error) {
	var row eventRow
	err := s.db.GetContext(ctx, &row, `
		SELECT event_id, title, description, start_datetime, end_datetime, location, created_at
		FROM events WHERE event_id = $1`, id)
	if err != nil {
		return event.Event{}, notFound(err, "event", id)
	}
	return row.toDomain(), nil
}

func (s *Store) ListEvents(ctx context.Context) ([]event.Event, error) {
	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT event_id, title, description, start_datetime, end_datetime, location, created_at
		FROM events ORDER BY start_datetime ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	result := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
