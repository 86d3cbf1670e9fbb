package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

// Querier is the subset of pgxpool.Pool the repository needs, kept narrow
// for mocking.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Refund is one row of the refund table.
type Refund struct {
	RefundID            string
	PaymentID           string
	MerchantID          string
	ProfileID           *string
	MerchantConnectorID *string
	Connector           string
	ConnectorRefundID   *string
	ConnectorTxnID      string
	Currency            domain.Currency
	RefundAmountMinor   int64
	RefundStatus        domain.RefundStatus
	RefundReason        *string
	Metadata            []byte
	CreatedAt           time.Time
	ModifiedAt          time.Time
}

// TimeRange bounds created_at; EndTime nil means "up to now".
type TimeRange struct {
	StartTime time.Time
	EndTime   *time.Time
}

// AmountFilter bounds the refund amount in minor units. Both bounds set
// means between (inclusive); one bound set means a one-sided comparison.
type AmountFilter struct {
	StartAmount *int64
	EndAmount   *int64
}

// RefundListConstraints narrows a merchant's refund listing.
//
// When both PaymentID and RefundID are set the two match as alternatives:
// a row satisfying either is returned.
type RefundListConstraints struct {
	PaymentID            *string
	RefundID             *string
	ProfileIDs           []string
	Connectors           []string
	MerchantConnectorIDs []string
	Currencies           []domain.Currency
	Statuses             []domain.RefundStatus
	TimeRange            *TimeRange
	Amount               *AmountFilter
	Limit                int64
	Offset               int64
}

// RefundRepository reads the refund table
type RefundRepository struct {
	db Querier
}

// NewRefundRepository creates a new refund repository
func NewRefundRepository(db Querier) *RefundRepository {
	return &RefundRepository{db: db}
}

const refundColumns = `refund_id, payment_id, merchant_id, profile_id, merchant_connector_id,
	connector, connector_refund_id, connector_transaction_id, currency,
	refund_amount, refund_status, refund_reason, metadata, created_at, modified_at`

// List returns the merchant's refunds matching the constraints, newest
// modifications first.
func (r *RefundRepository) List(ctx context.Context, merchantID string, constraints RefundListConstraints) ([]*Refund, error) {
	where, args := buildRefundFilter(merchantID, constraints)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM refund WHERE %s ORDER BY modified_at DESC", refundColumns, where)
	if constraints.Limit > 0 {
		args = append(args, constraints.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if constraints.Offset > 0 {
		args = append(args, constraints.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	var refunds []*Refund
	for rows.Next() {
		refund := &Refund{}
		if err := rows.Scan(
			&refund.RefundID,
			&refund.PaymentID,
			&refund.MerchantID,
			&refund.ProfileID,
			&refund.MerchantConnectorID,
			&refund.Connector,
			&refund.ConnectorRefundID,
			&refund.ConnectorTxnID,
			&refund.Currency,
			&refund.RefundAmountMinor,
			&refund.RefundStatus,
			&refund.RefundReason,
			&refund.Metadata,
			&refund.CreatedAt,
			&refund.ModifiedAt,
		); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		refunds = append(refunds, refund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	return refunds, nil
}

// Count returns how many refunds match the constraints, ignoring pagination.
func (r *RefundRepository) Count(ctx context.Context, merchantID string, constraints RefundListConstraints) (int64, error) {
	where, args := buildRefundFilter(merchantID, constraints)

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM refund WHERE %s", where)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count refunds: %w", err)
	}
	return count, nil
}

// buildRefundFilter renders the WHERE clause shared by List and Count with
// positional arguments.
func buildRefundFilter(merchantID string, c RefundListConstraints) (string, []any) {
	var clauses []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	clauses = append(clauses, fmt.Sprintf("merchant_id = %s", arg(merchantID)))

	switch {
	case c.PaymentID != nil && c.RefundID != nil:
		clauses = append(clauses, fmt.Sprintf("(payment_id = %s OR refund_id = %s)", arg(*c.PaymentID), arg(*c.RefundID)))
	case c.PaymentID != nil:
		clauses = append(clauses, fmt.Sprintf("payment_id = %s", arg(*c.PaymentID)))
	case c.RefundID != nil:
		clauses = append(clauses, fmt.Sprintf("refund_id = %s", arg(*c.RefundID)))
	}

	if len(c.ProfileIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("profile_id = ANY(%s)", arg(c.ProfileIDs)))
	}
	if len(c.Connectors) > 0 {
		clauses = append(clauses, fmt.Sprintf("connector = ANY(%s)", arg(c.Connectors)))
	}
	if len(c.MerchantConnectorIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("merchant_connector_id = ANY(%s)", arg(c.MerchantConnectorIDs)))
	}
	if len(c.Currencies) > 0 {
		currencies := make([]string, len(c.Currencies))
		for i, cur := range c.Currencies {
			currencies[i] = string(cur)
		}
		clauses = append(clauses, fmt.Sprintf("currency = ANY(%s)", arg(currencies)))
	}
	if len(c.Statuses) > 0 {
		statuses := make([]string, len(c.Statuses))
		for i, s := range c.Statuses {
			statuses[i] = string(s)
		}
		clauses = append(clauses, fmt.Sprintf("refund_status = ANY(%s)", arg(statuses)))
	}

	if c.TimeRange != nil {
		clauses = append(clauses, fmt.Sprintf("created_at >= %s", arg(c.TimeRange.StartTime)))
		if c.TimeRange.EndTime != nil {
			clauses = append(clauses, fmt.Sprintf("created_at <= %s", arg(*c.TimeRange.EndTime)))
		}
	}

	if c.Amount != nil {
		switch {
		case c.Amount.StartAmount != nil && c.Amount.EndAmount != nil:
			clauses = append(clauses, fmt.Sprintf("refund_amount BETWEEN %s AND %s", arg(*c.Amount.StartAmount), arg(*c.Amount.EndAmount)))
		case c.Amount.StartAmount != nil:
			clauses = append(clauses, fmt.Sprintf("refund_amount >= %s", arg(*c.Amount.StartAmount)))
		case c.Amount.EndAmount != nil:
			clauses = append(clauses, fmt.Sprintf("refund_amount <= %s", arg(*c.Amount.EndAmount)))
		}
	}

	return strings.Join(clauses, " AND "), args
}
