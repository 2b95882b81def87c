package vault

import (
	"context"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// WithdrawRequest is a decoded withdraw request plus its account address.
type WithdrawRequest struct {
	Address solana.PublicKey
	User    solana.PublicKey
	Bump    uint8
	Status  uint8
	MemeAmt uint64
	Count   uint64
}

// Ready reports whether the request has matured and can be finalized.
func (r *WithdrawRequest) Ready() bool {
	return r.Status == StatusReady
}

// WithdrawRequests lists the user's withdraw requests, ordered by counter
// ascending. The program-accounts query matches the exact 58-byte record
// size and the user field at offset 8, so closed (claimed) requests never
// appear. Transport failures propagate; callers that only display the list
// may choose to degrade to empty.
func (c *Client) WithdrawRequests(ctx context.Context, user solana.PublicKey) ([]WithdrawRequest, error) {
	out, err := c.rpc.GetProgramAccountsWithOpts(ctx, c.programID, &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentFinalized,
		Filters: []rpc.RPCFilter{
			{DataSize: WithdrawRequestAccountSize},
			{Memcmp: &rpc.RPCFilterMemcmp{
				Offset: userOffset,
				Bytes:  solana.Base58(user.Bytes()),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	requests := make([]WithdrawRequest, 0, len(out))
	for _, keyed := range out {
		decoded, err := DecodeWithdrawRequest(keyed.Account.Data.GetBinary())
		if err != nil {
			return nil, fmt.Errorf("withdraw request %s: %w", keyed.Pubkey, err)
		}
		if !decoded.User.Equals(user) {
			// The memcmp filter should make this unreachable.
			continue
		}
		requests = append(requests, WithdrawRequest{
			Address: keyed.Pubkey,
			User:    decoded.User,
			Bump:    decoded.Bump,
			Status:  decoded.Status,
			MemeAmt: decoded.MemeAmt,
			Count:   decoded.Count,
		})
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].Count < requests[j].Count
	})
	return requests, nil
}

// WithdrawRequestByCounter fetches a single request by its counter.
func (c *Client) WithdrawRequestByCounter(ctx context.Context, user solana.PublicKey, counter uint64) (*WithdrawRequest, error) {
	addr := mustFind(WithdrawRequestAddress(user, counter, c.programID))

	out, err := c.rpc.GetAccountInfo(ctx, addr)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: withdraw request %d", ErrAccountNotFound, counter)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	decoded, err := DecodeWithdrawRequest(out.Value.Data.GetBinary())
	if err != nil {
		return nil, err
	}
	return &WithdrawRequest{
		Address: addr,
		User:    decoded.User,
		Bump:    decoded.Bump,
		Status:  decoded.Status,
		MemeAmt: decoded.MemeAmt,
		Count:   decoded.Count,
	}, nil
}
