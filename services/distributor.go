// services/distributor.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wealthloop/wealthloop_backend/config"
	"github.com/wealthloop/wealthloop_backend/models"
)

var (
	ErrPurchaserNotFound = errors.New("purchaser not found")
	ErrUnknownPlan       = errors.New("unknown plan type")
)

// CommissionDetail summarizes one ancestor's share of a distribution.
type CommissionDetail struct {
	BeneficiaryID primitive.ObjectID `json:"beneficiaryId"`
	Amount        int64              `json:"amount"`
	Level         int                `json:"level"`
	Percent       string             `json:"percent"`
}

// SkippedAncestor records an ancestor that earned nothing and why, so
// audits can tell a skip from a silent drop.
type SkippedAncestor struct {
	AncestorID primitive.ObjectID `json:"ancestorId"`
	Level      int                `json:"level"`
	Reason     string             `json:"reason"` // "not_found" or "inactive"
}

// DistributionResult is the outcome of one purchase event. Amounts are
// minor units and always satisfy
// TotalCommissions + PlatformAmount == plan price.
type DistributionResult struct {
	Success          bool               `json:"success"`
	EventID          string             `json:"eventId"`
	TotalCommissions int64              `json:"totalCommissions"`
	PlatformAmount   int64              `json:"platformAmount"`
	Details          []CommissionDetail `json:"details"`
	Skipped          []SkippedAncestor  `json:"skipped,omitempty"`
}

// ActivitySink receives fire-and-forget notifications after a distribution
// commits. Implementations must never fail the financial path.
type ActivitySink interface {
	CommissionCredited(beneficiary, purchaser primitive.ObjectID, amount int64, level int, eventID string)
}

// Alerter delivers operator alerts for conditions that must not be silently
// absorbed, such as a rate table paying out more than the plan price.
type Alerter interface {
	Alert(subject, body string)
}

// CommissionDistributor walks a purchaser's referral ancestry and records
// every financial effect of one completed plan purchase as a single
// transaction. It is the only component with write authority over the
// ledger collections.
//
// The engine does not deduplicate purchase events: calling Distribute twice
// for the same purchase performs two full independent distributions.
// Callers own dedup by purchase-event id before retrying.
type CommissionDistributor struct {
	store    LedgerStore
	catalog  *config.PlanCatalog
	rates    *RateTable
	activity ActivitySink
	alerts   Alerter
}

func NewCommissionDistributor(store LedgerStore, catalog *config.PlanCatalog) *CommissionDistributor {
	return &CommissionDistributor{
		store:   store,
		catalog: catalog,
		rates:   NewRateTable(catalog),
	}
}

// WithActivitySink attaches the post-commit activity feed.
func (d *CommissionDistributor) WithActivitySink(sink ActivitySink) *CommissionDistributor {
	d.activity = sink
	return d
}

// WithAlerter attaches the operator alert channel.
func (d *CommissionDistributor) WithAlerter(alerts Alerter) *CommissionDistributor {
	d.alerts = alerts
	return d
}

// Distribute runs the full commission distribution for one completed
// purchase. On error no ledger state from this invocation is observable;
// the caller may retry the whole operation after checking its own dedup.
func (d *CommissionDistributor) Distribute(ctx context.Context, purchaserID primitive.ObjectID, planType models.PlanType) (*DistributionResult, error) {
	plan, ok := d.catalog.Plan(planType)
	if !ok {
		return nil, ErrUnknownPlan
	}

	purchaser, err := d.store.FindUser(ctx, purchaserID)
	if err != nil {
		return nil, err
	}
	if purchaser == nil {
		return nil, ErrPurchaserNotFound
	}

	result := &DistributionResult{
		EventID: uuid.NewString(),
		Details: []CommissionDetail{},
	}

	err = d.store.WithTransaction(ctx, func(txCtx context.Context) error {
		// Reset so a transient abort retried by the driver cannot
		// double-count accumulated state.
		result.TotalCommissions = 0
		result.PlatformAmount = 0
		result.Details = result.Details[:0]
		result.Skipped = nil

		chain, err := d.store.AncestryOf(txCtx, purchaserID)
		if err != nil {
			return err
		}

		// Ancestors are processed nearest-first; ordering only affects
		// record and result ordering, each level is independent.
		ordered := make([]models.AncestorRef, len(chain))
		copy(ordered, chain)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Level < ordered[j].Level
		})

		now := time.Now()
		totalPercent := decimal.Zero

		for _, ref := range ordered {
			if ref.Level < 1 || ref.Level > d.catalog.MaxDepth {
				continue
			}

			ancestor, err := d.store.FindUser(txCtx, ref.UserID)
			if err != nil {
				return err
			}
			if ancestor == nil {
				result.Skipped = append(result.Skipped, SkippedAncestor{
					AncestorID: ref.UserID, Level: ref.Level, Reason: "not_found",
				})
				continue
			}
			if !ancestor.IsActive {
				result.Skipped = append(result.Skipped, SkippedAncestor{
					AncestorID: ref.UserID, Level: ref.Level, Reason: "inactive",
				})
				continue
			}

			percent := d.rates.RateFor(planType, ref.Level)
			if !percent.IsPositive() {
				continue
			}
			amount := CommissionAmount(plan.PriceMinor, percent)
			if amount <= 0 {
				continue
			}

			commission := &models.Commission{
				ID:            primitive.NewObjectID(),
				EventID:       result.EventID,
				BeneficiaryID: ref.UserID,
				PurchaserID:   purchaserID,
				Amount:        amount,
				Level:         ref.Level,
				Percent:       percent.String(),
				PlanType:      planType,
				PlanPrice:     plan.PriceMinor,
				Status:        models.CommissionStatusCompleted,
				CreatedAt:     now,
			}
			if err := d.store.InsertCommission(txCtx, commission); err != nil {
				return err
			}

			description := fmt.Sprintf("Level %d commission from %s plan purchase by %s",
				ref.Level, planType, purchaser.FullName)

			earning := &models.Earning{
				ID:          primitive.NewObjectID(),
				EventID:     result.EventID,
				UserID:      ref.UserID,
				Amount:      amount,
				Currency:    plan.Currency,
				Source:      models.EarningSourceCommission,
				FromUserID:  purchaserID,
				Level:       ref.Level,
				Description: description,
				Status:      models.EarningStatusCompleted,
				CreatedAt:   now,
			}
			if err := d.store.InsertEarning(txCtx, earning); err != nil {
				return err
			}

			walletTx := &models.WalletTransaction{
				ID:          primitive.NewObjectID(),
				EventID:     result.EventID,
				OwnerID:     ref.UserID.Hex(),
				Amount:      amount,
				Type:        models.TransactionTypeCommission,
				ReferenceID: commission.ID.Hex(),
				Status:      models.TransactionStatusCompleted,
				Description: description,
				CreatedAt:   now,
			}
			if err := d.store.InsertWalletTransaction(txCtx, walletTx); err != nil {
				return err
			}

			if err := d.store.CreditWallet(txCtx, ref.UserID, amount); err != nil {
				return err
			}

			totalPercent = totalPercent.Add(percent)
			result.TotalCommissions += amount
			result.Details = append(result.Details, CommissionDetail{
				BeneficiaryID: ref.UserID,
				Amount:        amount,
				Level:         ref.Level,
				Percent:       percent.String(),
			})
		}

		// The platform takes whatever the ancestors did not, including the
		// share of skipped levels and rounding dust. Computing it by
		// subtraction makes the balance invariant hold exactly.
		platformAmount := plan.PriceMinor - result.TotalCommissions
		if platformAmount < 0 {
			platformAmount = 0
			d.alertConfigOverrun(planType, totalPercent)
		}
		result.PlatformAmount = platformAmount

		platformTx := &models.WalletTransaction{
			ID:          primitive.NewObjectID(),
			EventID:     result.EventID,
			OwnerID:     models.PlatformOwnerID,
			Amount:      platformAmount,
			Type:        models.TransactionTypeDeposit,
			ReferenceID: "plan_purchase_" + purchaserID.Hex(),
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Platform revenue from %s plan purchase", planType),
			CreatedAt:   now,
		}
		if err := d.store.InsertWalletTransaction(txCtx, platformTx); err != nil {
			return err
		}
		return d.store.CreditPlatformWallet(txCtx, platformAmount)
	})
	if err != nil {
		return nil, fmt.Errorf("commission distribution failed for %s: %w", purchaserID.Hex(), err)
	}

	result.Success = true

	// Activity entries are fire-and-forget and must never undo the
	// committed transaction.
	if d.activity != nil {
		for _, detail := range result.Details {
			d.activity.CommissionCredited(detail.BeneficiaryID, purchaserID, detail.Amount, detail.Level, result.EventID)
		}
	}

	return result, nil
}

func (d *CommissionDistributor) alertConfigOverrun(planType models.PlanType, totalPercent decimal.Decimal) {
	msg := fmt.Sprintf("rate table for plan %s paid out %s%% of the price; platform remainder clamped to zero",
		planType, totalPercent.String())
	log.Printf("CONFIG ERROR: %s", msg)
	if d.alerts != nil {
		d.alerts.Alert("Commission rate table misconfigured", msg)
	}
}
