package vault

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// PortfolioCounter reads the user's current withdraw-request counter. A
// missing portfolio account is the expected first-time-user path and reads
// as counter 0; any other failure propagates. The counter feeds the next
// withdraw request's address derivation, so it is read immediately before
// building that transaction.
func (c *Client) PortfolioCounter(ctx context.Context, user solana.PublicKey) (uint64, error) {
	portfolio := mustFind(PortfolioAddress(user, c.programID))

	out, err := c.rpc.GetAccountInfo(ctx, portfolio)
	if err != nil {
		if IsNotFound(err) {
			// No portfolio yet: the first request-withdraw creates it.
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	return counterFromAccountData(out.Value.Data.GetBinary())
}

// counterFromAccountData extracts the counter from raw portfolio bytes.
func counterFromAccountData(data []byte) (uint64, error) {
	portfolio, err := DecodePortfolio(data)
	if err != nil {
		return 0, err
	}
	return portfolio.Counter, nil
}

// IsNotFound classifies the RPC not-found family of errors, which the
// various account endpoints report inconsistently.
func IsNotFound(err error) bool {
	if errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	return strings.Contains(err.Error(), "could not find account")
}

// ParseRawAmount parses the raw integer token amount string carried in RPC
// balance and supply responses.
func ParseRawAmount(amount string) (uint64, error) {
	raw, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad raw token amount %q", ErrDecodeFailure, amount)
	}
	return raw, nil
}
