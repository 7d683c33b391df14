// Package registry persists the user's client-side wallet state: the
// accounts and faucets deployed from this front end and the address
// book. Persistence is best-effort: a corrupt or missing list loads as
// empty rather than failing startup.
package registry

import (
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/q3x-finance/miden-poc-ui/domain"
)

// Fixed storage keys. Each key holds one JSON-encoded list that is
// rewritten in full on every mutation.
const (
	keyAccounts = "deployedAccounts"
	keyFaucets  = "deployedFaucets"
	keyContacts = "addressBook"
)

type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

func NewStore(db *badger.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Accounts returns the deployed-account list.
func (s *Store) Accounts() ([]domain.Account, error) {
	var out []domain.Account
	return out, s.load(keyAccounts, &out)
}

// Faucets returns the deployed-faucet list.
func (s *Store) Faucets() ([]domain.Faucet, error) {
	var out []domain.Faucet
	return out, s.load(keyFaucets, &out)
}

// Contacts returns the address book.
func (s *Store) Contacts() ([]domain.Contact, error) {
	var out []domain.Contact
	return out, s.load(keyContacts, &out)
}

// SaveAccounts replaces the deployed-account list.
func (s *Store) SaveAccounts(accounts []domain.Account) error {
	return s.store(keyAccounts, accounts)
}

// SaveFaucets replaces the deployed-faucet list.
func (s *Store) SaveFaucets(faucets []domain.Faucet) error {
	return s.store(keyFaucets, faucets)
}

// SaveContacts replaces the address book.
func (s *Store) SaveContacts(contacts []domain.Contact) error {
	return s.store(keyContacts, contacts)
}

// AppendAccount adds one account record.
func (s *Store) AppendAccount(a domain.Account) error {
	accounts, err := s.Accounts()
	if err != nil {
		return err
	}
	return s.SaveAccounts(append(accounts, a))
}

// AppendFaucet adds one faucet record.
func (s *Store) AppendFaucet(f domain.Faucet) error {
	faucets, err := s.Faucets()
	if err != nil {
		return err
	}
	return s.SaveFaucets(append(faucets, f))
}

// AppendContact adds one address-book entry.
func (s *Store) AppendContact(c domain.Contact) error {
	contacts, err := s.Contacts()
	if err != nil {
		return err
	}
	return s.SaveContacts(append(contacts, c))
}

// RemoveContact drops the address-book entry at index i. Out-of-range
// indexes are a no-op.
func (s *Store) RemoveContact(i int) error {
	contacts, err := s.Contacts()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(contacts) {
		return nil
	}
	return s.SaveContacts(append(contacts[:i], contacts[i+1:]...))
}

func (s *Store) load(key string, out any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		var jsonErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &jsonErr) || errors.As(err, &typeErr) {
			s.log.Warn().Err(err).Str("key", key).Msg("corrupt registry entry, starting empty")
			return nil
		}
		s.log.Error().Err(err).Str("key", key).Msg("failed to load registry entry")
		return err
	}
	return nil
}

func (s *Store) store(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to persist registry entry")
		return err
	}
	return nil
}
