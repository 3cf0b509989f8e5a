// Package ledger keeps invoices, pricing records and payments, and derives
// the settlement state of every invoice from its payments.
package ledger

import (
	"context"

	"caterer/internal/models"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

// Recorder receives business counters for the metrics endpoint
type Recorder interface {
	InvoiceSaved(outcome string)
	PaymentRecorded(operation string, status models.SettlementStatus)
}

// Publisher is notified after a payment mutation has committed
type Publisher interface {
	Publish(owner, kind string, data interface{})
}

// Ledger implements the invoice ledger and payment accumulator.
// Every mutating operation runs in one database transaction.
type Ledger struct {
	db        *gorm.DB
	logger    *zap.Logger
	recorder  Recorder
	publisher Publisher
}

// Option configures a Ledger
type Option func(*Ledger)

// WithRecorder attaches a metrics recorder
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) { l.recorder = r }
}

// WithPublisher attaches a settlement event publisher
func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// New creates a ledger on top of the shared database handle
func New(db *gorm.DB, logger *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		db:        db,
		logger:    logger.Named("ledger"),
		recorder:  nopRecorder{},
		publisher: nopPublisher{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// transaction runs fn in a database transaction unless ctx is already done
func (l *Ledger) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.db.Transaction(fn)
}

type nopRecorder struct{}

func (nopRecorder) InvoiceSaved(string)                              {}
func (nopRecorder) PaymentRecorded(string, models.SettlementStatus) {}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, interface{}) {}
