package strategy

import (
	"fmt"

	"github.com/solpmm/engine/pkg/mechanisms"
	"github.com/solpmm/engine/pkg/primitives"
)

// PMMPosition wraps a mechanisms.PoolPosition minted by a
// mechanisms.PMMPool, implementing Position/PositionMetadata so a
// proactive market maker pool can sit in a Portfolio alongside any
// other mechanism's positions.
type PMMPosition struct {
	poolPosition mechanisms.PoolPosition
	pool         *mechanisms.PMMPool
	pairName     string // e.g. "ETH/USDC", used to look up price in MarketSnapshot
}

// NewPMMPosition wraps a minted pool position for portfolio tracking.
func NewPMMPosition(poolPos mechanisms.PoolPosition, pool *mechanisms.PMMPool, pairName string) *PMMPosition {
	return &PMMPosition{poolPosition: poolPos, pool: pool, pairName: pairName}
}

// ID returns the underlying pool position's identifier.
func (p *PMMPosition) ID() string {
	return p.poolPosition.PoolID
}

// Type classifies this as a liquidity pool position.
func (p *PMMPosition) Type() PositionType {
	return PositionTypeLiquidityPool
}

// Value marks the position to market: the base side at the
// snapshot's quoted price plus the quote side at par.
func (p *PMMPosition) Value(snapshot MarketSnapshot) (primitives.Amount, error) {
	price, err := snapshot.Price(p.pairName)
	if err != nil {
		return primitives.ZeroAmount(), fmt.Errorf("pmm position %s: %w", p.ID(), err)
	}
	baseValue := p.poolPosition.TokensDeposited.AmountA.MulPrice(price)
	quoteValue := p.poolPosition.TokensDeposited.AmountB
	return baseValue.Add(quoteValue), nil
}

// Description renders a human-readable summary of the position.
func (p *PMMPosition) Description() string {
	return fmt.Sprintf("PMM LP %s: %s base / %s quote",
		p.poolPosition.PoolID,
		p.poolPosition.TokensDeposited.AmountA.String(),
		p.poolPosition.TokensDeposited.AmountB.String())
}

// Venue returns the pool's deployment identifier.
func (p *PMMPosition) Venue() string {
	return p.pool.Venue()
}

var (
	_ Position         = (*PMMPosition)(nil)
	_ PositionMetadata = (*PMMPosition)(nil)
)
