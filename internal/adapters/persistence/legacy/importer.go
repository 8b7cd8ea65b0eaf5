package legacy

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

// Result counts what happened to each collection
type Result struct {
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Failed   map[string]int `json:"failed"`
}

func newResult() *Result {
	return &Result{
		Imported: map[string]int{},
		Skipped:  map[string]int{},
		Failed:   map[string]int{},
	}
}

// Total returns imported, skipped and failed document counts
func (r *Result) Total() (imported, skipped, failed int) {
	for _, n := range r.Imported {
		imported += n
	}
	for _, n := range r.Skipped {
		skipped += n
	}
	for _, n := range r.Failed {
		failed += n
	}
	return imported, skipped, failed
}

// Importer writes a decoded export into the store. Documents whose id (or,
// for accounts, phone) already exists are skipped, so a run can be repeated.
type Importer struct {
	store        *repositories.Store
	hash         Hasher
	passwordHash string
	log          zerolog.Logger
}

// NewImporter creates an importer. initialPassword becomes the password of
// every imported account.
func NewImporter(store *repositories.Store, hash Hasher, initialPassword string, log zerolog.Logger) (*Importer, error) {
	if len(initialPassword) < 6 {
		return nil, domain.ErrInvalidPassword
	}
	passwordHash, err := hash(initialPassword)
	if err != nil {
		return nil, err
	}
	return &Importer{
		store:        store,
		hash:         hash,
		passwordHash: passwordHash,
		log:          log.With().Str("component", "importer").Logger(),
	}, nil
}

// Run imports every known collection of exp in dependency order
func (im *Importer) Run(ctx context.Context, exp Export) (*Result, error) {
	res := newResult()

	for name := range exp {
		if !knownCollection(name) {
			im.log.Warn().Str("collection", name).Msg("unknown collection ignored")
		}
	}

	for _, name := range ImportOrder {
		docs := exp[name]
		ids := make([]string, 0, len(docs))
		for id := range docs {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			err := im.importDoc(ctx, name, id, docs[id])
			switch {
			case err == nil:
				res.Imported[name]++
			case errors.Is(err, domain.ErrConflict):
				res.Skipped[name]++
				im.log.Debug().Str("collection", name).Str("id", id).Msg("already present, skipped")
			case errors.Is(err, domain.ErrTransientStore):
				return res, err
			default:
				res.Failed[name]++
				im.log.Warn().Err(err).Str("collection", name).Str("id", id).Msg("⚠️ document not imported")
			}
		}

		if len(ids) > 0 {
			im.log.Info().
				Str("collection", name).
				Int("imported", res.Imported[name]).
				Int("skipped", res.Skipped[name]).
				Int("failed", res.Failed[name]).
				Msg("📦 collection imported")
		}
	}
	return res, nil
}

func (im *Importer) importDoc(ctx context.Context, collection, id string, d Doc) error {
	switch collection {
	case CollectionUsers:
		m, err := Member(id, d, im.passwordHash)
		if err != nil {
			return err
		}
		return im.store.Ledger.RunInTx(ctx, func(tx repositories.LedgerTx) error {
			if _, err := tx.GetMemberForUpdate(id); err == nil {
				return fmt.Errorf("user %s: %w", id, domain.ErrConflict)
			}
			return tx.CreateMember(m)
		})

	case CollectionMemberRequests:
		r, err := JoinRequest(id, d, im.hash)
		if err != nil {
			return err
		}
		if r.PasswordHash == "" {
			r.PasswordHash = im.passwordHash
		}
		return im.store.JoinRequests.Create(ctx, r)

	case CollectionDeposits:
		dep, err := Deposit(id, d)
		if err != nil {
			return err
		}
		return im.store.Ledger.RunInTx(ctx, func(tx repositories.LedgerTx) error {
			if _, err := tx.GetDepositForUpdate(id); err == nil {
				return fmt.Errorf("deposit %s: %w", id, domain.ErrConflict)
			}
			return tx.CreateDeposit(dep)
		})

	case CollectionLoans:
		loan, err := Loan(id, d)
		if err != nil {
			return err
		}
		return im.store.Ledger.RunInTx(ctx, func(tx repositories.LedgerTx) error {
			if _, err := tx.GetLoanForUpdate(id); err == nil {
				return fmt.Errorf("loan %s: %w", id, domain.ErrConflict)
			}
			return tx.CreateLoan(loan)
		})

	case CollectionRepayments:
		rep, err := Repayment(id, d)
		if err != nil {
			return err
		}
		return im.store.Ledger.RunInTx(ctx, func(tx repositories.LedgerTx) error {
			return tx.CreateRepayment(rep)
		})

	case CollectionTransactions:
		trx, err := Transaction(id, d)
		if err != nil {
			return err
		}
		return im.store.Ledger.RunInTx(ctx, func(tx repositories.LedgerTx) error {
			return tx.CreateTransaction(trx)
		})

	case CollectionLogs:
		entry, err := AuditLog(id, d)
		if err != nil {
			return err
		}
		return im.store.AuditLogs.Create(ctx, entry)

	case CollectionNotifications:
		n, err := Notification(id, d)
		if err != nil {
			return err
		}
		return im.store.Notifications.Create(ctx, n)

	case CollectionNotices:
		n, err := Notice(id, d)
		if err != nil {
			return err
		}
		return im.store.Notices.Create(ctx, n)

	case CollectionSettings:
		s, err := Setting(id, d)
		if err != nil {
			return err
		}
		return im.store.Settings.Put(ctx, s)
	}
	return nil
}

func knownCollection(name string) bool {
	for _, c := range ImportOrder {
		if c == name {
			return true
		}
	}
	return false
}
