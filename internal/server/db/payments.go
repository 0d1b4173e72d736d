package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/arenax/arenax/internal/objects"
)

const tablePayments = "payments"

var paymentColumns = []string{
	"reference", "team_id", "amount", "currency", "phone", "email", "name",
	"status", "provider_transaction_id", "raw_data", "created_at", "updated_at",
}

func scanPayment(rows *sql.Rows) (*objects.Payment, error) {
	var (
		p      objects.Payment
		amount string
		status string
		raw    sql.NullString
	)

	err := rows.Scan(&p.Reference, &p.TeamID, &amount, &p.Currency, &p.Phone, &p.Email, &p.Name,
		&status, &p.ProviderTransactionID, &raw, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("payment %s: invalid amount %q: %w", p.Reference, amount, err)
	}

	p.Status = objects.PaymentStatus(status)

	if raw.Valid && raw.String != "" {
		p.RawData = json.RawMessage(raw.String)
	}

	return &p, nil
}

func rawString(raw json.RawMessage) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}

	return sql.NullString{String: string(raw), Valid: true}
}

func (s *Store) CreatePayment(ctx context.Context, p *objects.Payment) error {
	_, err := s.exec(ctx, s.builder().Insert(tablePayments).
		Columns(paymentColumns...).
		Values(p.Reference, p.TeamID, p.Amount.String(), p.Currency, p.Phone, p.Email, p.Name,
			string(p.Status), p.ProviderTransactionID, rawString(p.RawData), p.CreatedAt, p.UpdatedAt))

	return err
}

func (s *Store) GetPayment(ctx context.Context, reference string) (*objects.Payment, error) {
	return queryOne(ctx, s, s.builder().Select(paymentColumns...).
		From(entsql.Table(tablePayments)).
		Where(entsql.EQ("reference", reference)), scanPayment)
}

func (s *Store) GetPaymentByProviderID(ctx context.Context, providerID string) (*objects.Payment, error) {
	return queryOne(ctx, s, s.builder().Select(paymentColumns...).
		From(entsql.Table(tablePayments)).
		Where(entsql.EQ("provider_transaction_id", providerID)), scanPayment)
}

// ListPayments returns the payments of a team, newest first. An empty team
// id lists every payment.
func (s *Store) ListPayments(ctx context.Context, teamID string) ([]*objects.Payment, error) {
	q := s.builder().Select(paymentColumns...).
		From(entsql.Table(tablePayments)).
		OrderBy(entsql.Desc("created_at"))

	if teamID != "" {
		q = q.Where(entsql.EQ("team_id", teamID))
	}

	return queryRows(ctx, s, q, scanPayment)
}

// PaymentUpdate holds the fields set by UpdatePayment. Empty fields are kept.
type PaymentUpdate struct {
	Status                objects.PaymentStatus
	ProviderTransactionID string
	RawData               json.RawMessage
}

func (s *Store) UpdatePayment(ctx context.Context, reference string, u PaymentUpdate) error {
	q := s.builder().Update(tablePayments).
		Set("updated_at", now()).
		Where(entsql.EQ("reference", reference))

	if u.Status != "" {
		q = q.Set("status", string(u.Status))
	}

	if u.ProviderTransactionID != "" {
		q = q.Set("provider_transaction_id", u.ProviderTransactionID)
	}

	if len(u.RawData) > 0 {
		q = q.Set("raw_data", string(u.RawData))
	}

	res, err := s.exec(ctx, q)
	if err != nil {
		return err
	}

	ok, err := affected(res)
	if err != nil {
		return err
	}

	if !ok {
		return ErrNotFound
	}

	return nil
}
