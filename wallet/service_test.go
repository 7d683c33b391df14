package wallet_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q3x-finance/miden-poc-ui/domain"
	"github.com/q3x-finance/miden-poc-ui/wallet"
)

// fakeRegistry is an in-memory wallet.Registry.
type fakeRegistry struct {
	accounts []domain.Account
	faucets  []domain.Faucet
	contacts []domain.Contact
}

func (f *fakeRegistry) Accounts() ([]domain.Account, error) { return f.accounts, nil }

func (f *fakeRegistry) AppendAccount(a domain.Account) error {
	f.accounts = append(f.accounts, a)
	return nil
}

func (f *fakeRegistry) AppendFaucet(fc domain.Faucet) error {
	f.faucets = append(f.faucets, fc)
	return nil
}

func (f *fakeRegistry) AppendContact(c domain.Contact) error {
	f.contacts = append(f.contacts, c)
	return nil
}

func newServiceHarness(t *testing.T) (*harness, *fakeRegistry) {
	t.Helper()
	h := newHarness(t)
	reg := &fakeRegistry{}
	h.service = wallet.NewService(wallet.ServiceConfig{
		Gateway:  h.gateway,
		Registry: reg,
		Listener: h.listener(),
		Logger:   zerolog.Nop(),
	})
	return h, reg
}

func TestMintTokenTriggersOneRefresh(t *testing.T) {
	h := newHarness(t)
	h.ledger.SeedAccount("0xAAA", "0xFAUCET", 0)

	receipt, err := h.service.MintToken(context.Background(), "0xAAA", "0xFAUCET", 100)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxRef)
	assert.True(t, strings.HasPrefix(receipt.ExplorerURL, "https://"))
	assert.Contains(t, receipt.ExplorerURL, "/tx/"+receipt.TxRef.String())
	assert.Equal(t, 1, h.refreshCount("0xAAA"))
}

func TestConsumeAllClaimsEveryNote(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.ledger.SeedAccount("0xAAA", "0xFAUCET", 0)
	_, err := h.ledger.MintTransaction(ctx, "0xAAA", "0xFAUCET", 70, domain.NoteTypePublic)
	require.NoError(t, err)
	_, err = h.ledger.MintTransaction(ctx, "0xAAA", "0xFAUCET", 30, domain.NoteTypePublic)
	require.NoError(t, err)

	receipt, err := h.service.ConsumeAll(ctx, "0xAAA")
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxRef)
	assert.Equal(t, 1, h.refreshCount("0xAAA"))

	notes, err := h.service.GetConsumableNotes(ctx, "0xAAA")
	require.NoError(t, err)
	assert.Empty(t, notes)

	assets, err := h.service.Refresh(ctx, "0xAAA")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "100", assets[0].Amount)
}

func TestConsumeAllWithNothingToConsume(t *testing.T) {
	h := newHarness(t)
	h.ledger.SeedAccount("0xAAA", "0xFAUCET", 0)

	receipt, err := h.service.ConsumeAll(context.Background(), "0xAAA")
	require.NoError(t, err)
	assert.Empty(t, receipt.TxRef)
	assert.Equal(t, 0, h.refreshCount("0xAAA"), "nothing consumed, nothing to refresh")
}

func TestDeployAccountRecordsRegistryAndContact(t *testing.T) {
	h, reg := newServiceHarness(t)

	account, err := h.service.DeployAccount(context.Background(), "Savings", true)
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.True(t, account.IsPublic)

	require.Len(t, reg.accounts, 1)
	assert.Equal(t, account, reg.accounts[0])
	require.Len(t, reg.contacts, 1)
	assert.Equal(t, domain.Contact{Name: "Savings", Address: account.ID.String()}, reg.contacts[0])
}

func TestDeployAccountDefaultsName(t *testing.T) {
	h, reg := newServiceHarness(t)
	ctx := context.Background()

	first, err := h.service.DeployAccount(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, "Account 1", first.Name)

	second, err := h.service.DeployAccount(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, "Account 2", second.Name)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, reg.accounts, 2)
}

func TestDeployFaucetRecordsMetadata(t *testing.T) {
	h, reg := newServiceHarness(t)

	faucet, err := h.service.DeployFaucet(context.Background(), "DEMO", 6, 1_000_000)
	require.NoError(t, err)
	assert.NotEmpty(t, faucet.ID)
	assert.Equal(t, int32(6), faucet.Decimals)
	assert.Equal(t, "1000000", faucet.MaxSupply)
	require.Len(t, reg.faucets, 1)
	assert.Equal(t, faucet, reg.faucets[0])
}
