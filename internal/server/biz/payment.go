package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/zhenzou/executors"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/contexts"
	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/objects"
	"github.com/arenax/arenax/internal/payment"
	"github.com/arenax/arenax/internal/pkg/xcache"
	"github.com/arenax/arenax/internal/pkg/xtime"
	"github.com/arenax/arenax/internal/server/db"
)

const verificationCachePrefix = "arenax:payment:verification:"

// ChargeInput starts the registration payment of a team. Contact fields
// default to the team captain.
type ChargeInput struct {
	TeamID    string          `json:"teamId"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Network   string          `json:"network"`
}

type PaymentServiceParams struct {
	fx.In

	Store         *db.Store
	Bus           *eventbus.Bus
	Provider      payment.Provider
	Executor      executors.ScheduledExecutor
	CacheConfig   xcache.Config
	Config        Config
	PaymentConfig payment.Config
}

type PaymentService struct {
	*AbstractService

	Provider payment.Provider
	Executor executors.ScheduledExecutor

	// Cache holds verifications with a final status, keyed by reference or
	// provider transaction id.
	Cache xcache.Cache[payment.Verification]

	currency     string
	verifyCron   string
	verifyMinAge time.Duration
}

func NewPaymentService(params PaymentServiceParams) (*PaymentService, error) {
	cache, err := xcache.NewFromConfig[payment.Verification](context.Background(), params.CacheConfig, verificationCachePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create verification cache: %w", err)
	}

	return &PaymentService{
		AbstractService: &AbstractService{
			store: params.Store,
			bus:   params.Bus,
		},
		Provider:     params.Provider,
		Executor:     params.Executor,
		Cache:        cache,
		currency:     strings.ToUpper(params.PaymentConfig.Currency),
		verifyCron:   params.Config.VerifyCron,
		verifyMinAge: lo.CoalesceOrEmpty(params.Config.VerifyMinAge, time.Minute),
	}, nil
}

// Start schedules the re-verification of pending payments.
func (svc *PaymentService) Start(ctx context.Context) error {
	if svc.verifyCron == "" || svc.Executor == nil {
		return nil
	}

	_, err := svc.Executor.ScheduleFuncAtCronRate(
		svc.verifyPendingPeriodic,
		executors.CRONRule{Expr: svc.verifyCron},
	)
	if err != nil {
		return fmt.Errorf("failed to schedule payment verification: %w", err)
	}

	log.Info(ctx, "pending payment verification scheduled", log.String("cron", svc.verifyCron))

	return nil
}

// InitiateCharge records a pending payment for the team and asks the provider
// to charge the payer.
func (svc *PaymentService) InitiateCharge(ctx context.Context, input ChargeInput) (*payment.ChargeResult, error) {
	if strings.TrimSpace(input.TeamID) == "" {
		return nil, invalidInput("team id is required")
	}

	if !input.Amount.IsPositive() {
		return nil, invalidInput("amount must be positive")
	}

	team, err := svc.store.GetTeam(ctx, input.TeamID)
	if err != nil {
		return nil, mapNotFound(err, ErrTeamNotFound)
	}

	if team.Status == objects.TeamStatusRegistered {
		return nil, invalidInput("team is already registered")
	}

	phone := lo.CoalesceOrEmpty(strings.TrimSpace(input.Phone), team.CaptainPhone)
	if phone == "" {
		return nil, invalidInput("phone is required")
	}

	now := xtime.UTCNow()
	p := &objects.Payment{
		Reference: lo.CoalesceOrEmpty(strings.TrimSpace(input.Reference), newReference()),
		TeamID:    team.ID,
		Amount:    input.Amount,
		Currency:  strings.ToUpper(lo.CoalesceOrEmpty(strings.TrimSpace(input.Currency), svc.currency)),
		Phone:     phone,
		Email:     lo.CoalesceOrEmpty(strings.TrimSpace(input.Email), team.CaptainEmail),
		Name:      lo.CoalesceOrEmpty(strings.TrimSpace(input.Name), team.CaptainName),
		Status:    objects.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if p.Currency == "" {
		return nil, invalidInput("currency is required")
	}

	if err := svc.store.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	result, err := svc.Provider.InitiateCharge(ctx, payment.ChargeRequest{
		Reference: p.Reference,
		Phone:     p.Phone,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Email:     p.Email,
		Name:      p.Name,
		Network:   input.Network,
	})
	if err != nil {
		if uerr := svc.store.UpdatePayment(ctx, p.Reference, db.PaymentUpdate{Status: objects.PaymentStatusFailed}); uerr != nil {
			// Reported by the access log next to the charge error.
			ctx = contexts.AddError(ctx, fmt.Errorf("mark payment %s failed: %w", p.Reference, uerr))
		}

		svc.publishChanged(ctx, objects.ResourcePayments)

		return nil, err
	}

	update := db.PaymentUpdate{
		ProviderTransactionID: result.ProviderTransactionID,
		RawData:               result.RawData,
	}
	if result.Status == payment.StatusFailed {
		update.Status = objects.PaymentStatusFailed
	}

	if err := svc.store.UpdatePayment(ctx, p.Reference, update); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	svc.publishChanged(ctx, objects.ResourcePayments)

	return result, nil
}

// VerifyByReference checks the payment with our reference. An empty reference
// yields a missing_reference result without calling the provider.
func (svc *PaymentService) VerifyByReference(ctx context.Context, reference string) (*payment.Verification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return payment.MissingReference(), nil
	}

	cacheKey := "ref:" + reference
	if v, ok := svc.cached(ctx, cacheKey); ok {
		return v, nil
	}

	v, err := svc.Provider.VerifyByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	v.Reference = lo.CoalesceOrEmpty(v.Reference, reference)

	p, err := svc.store.GetPayment(ctx, v.Reference)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if err := svc.settle(ctx, p, v); err != nil {
		return nil, err
	}

	svc.remember(ctx, cacheKey, v)

	return v, nil
}

// VerifyByID checks the payment with the provider transaction id.
func (svc *PaymentService) VerifyByID(ctx context.Context, id string) (*payment.Verification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalidInput("transaction id is required")
	}

	cacheKey := "id:" + id
	if v, ok := svc.cached(ctx, cacheKey); ok {
		return v, nil
	}

	v, err := svc.Provider.VerifyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v.ProviderTransactionID = lo.CoalesceOrEmpty(v.ProviderTransactionID, id)

	p, err := svc.store.GetPaymentByProviderID(ctx, id)
	if errors.Is(err, db.ErrNotFound) && v.Reference != "" {
		p, err = svc.store.GetPayment(ctx, v.Reference)
	}

	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if err := svc.settle(ctx, p, v); err != nil {
		return nil, err
	}

	svc.remember(ctx, cacheKey, v)

	return v, nil
}

func (svc *PaymentService) ListPayments(ctx context.Context, teamID string) ([]*objects.Payment, error) {
	if _, err := svc.store.GetTeam(ctx, teamID); err != nil {
		return nil, mapNotFound(err, ErrTeamNotFound)
	}

	return svc.store.ListPayments(ctx, teamID)
}

// settle applies a verification to the stored payment. A success counts only
// when the provider paid at least the expected amount in the same currency.
// A payment that is already successful is never downgraded.
func (svc *PaymentService) settle(ctx context.Context, p *objects.Payment, v *payment.Verification) error {
	if p == nil {
		log.Warn(ctx, "verification for unknown payment",
			log.String("reference", v.Reference),
			log.String("provider_transaction_id", v.ProviderTransactionID))

		return nil
	}

	if v.Success && !amountCovers(p, v) {
		log.Warn(ctx, "payment amount does not cover the charge",
			log.String("reference", p.Reference),
			log.String("expected", p.Amount.String()+" "+p.Currency),
			log.String("paid", v.Amount.String()+" "+v.Currency))

		v.Success = false
		v.Status = payment.StatusFailed
	}

	if p.Status == objects.PaymentStatusSuccessful {
		return nil
	}

	status := objects.PaymentStatusPending

	switch {
	case v.Success:
		status = objects.PaymentStatusSuccessful
	case v.Status == payment.StatusFailed:
		status = objects.PaymentStatusFailed
	}

	if status == p.Status && v.ProviderTransactionID == p.ProviderTransactionID {
		return nil
	}

	err := svc.store.UpdatePayment(ctx, p.Reference, db.PaymentUpdate{
		Status:                status,
		ProviderTransactionID: v.ProviderTransactionID,
		RawData:               v.RawData,
	})
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	log.Info(ctx, "payment verified",
		log.String("reference", p.Reference),
		log.String("status", string(status)))

	changed := []string{objects.ResourcePayments}

	if status == objects.PaymentStatusSuccessful {
		if err := svc.store.UpdateTeamStatus(ctx, p.TeamID, objects.TeamStatusRegistered); err != nil {
			return fmt.Errorf("failed to register team: %w", err)
		}

		changed = append(changed, objects.ResourceTeams)
	}

	svc.publishChanged(ctx, changed...)

	return nil
}

func amountCovers(p *objects.Payment, v *payment.Verification) bool {
	return strings.EqualFold(p.Currency, v.Currency) && v.Amount.GreaterThanOrEqual(p.Amount)
}

func (svc *PaymentService) cached(ctx context.Context, key string) (*payment.Verification, bool) {
	v, err := svc.Cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	return &v, true
}

func (svc *PaymentService) remember(ctx context.Context, key string, v *payment.Verification) {
	if !v.Final() {
		return
	}

	if err := svc.Cache.Set(ctx, key, *v); err != nil && !errors.Is(err, xcache.ErrCacheNotConfigured) {
		log.Warn(ctx, "failed to cache verification", log.String("key", key), log.Cause(err))
	}
}

func (svc *PaymentService) verifyPendingPeriodic(ctx context.Context) {
	payments, err := svc.store.ListPayments(ctx, "")
	if err != nil {
		log.Error(ctx, "failed to list payments", log.Cause(err))
		return
	}

	cutoff := xtime.UTCNow().Add(-svc.verifyMinAge)

	pending := lo.Filter(payments, func(p *objects.Payment, _ int) bool {
		return p.Status == objects.PaymentStatusPending && p.CreatedAt.Before(cutoff)
	})

	for _, p := range pending {
		if _, err := svc.VerifyByReference(ctx, p.Reference); err != nil {
			log.Warn(ctx, "failed to verify pending payment", log.String("reference", p.Reference), log.Cause(err))
		}
	}
}

func newReference() string {
	return "ARX-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}
