package wallet

import "github.com/q3x-finance/miden-poc-ui/domain"

// DefaultExplorerHost is the testnet block explorer.
const DefaultExplorerHost = "testnet.midenscan.com"

// ExplorerTxURL formats the block-explorer link for a transaction
// reference. Display-only; nothing is ever read back from the explorer.
func ExplorerTxURL(host string, ref domain.TxRef) string {
	if host == "" {
		host = DefaultExplorerHost
	}
	return "https://" + host + "/tx/" + ref.String()
}
