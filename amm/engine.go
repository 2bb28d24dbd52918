// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"strconv"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/hookswap/hookswap/contract"
	"github.com/hookswap/hookswap/hooks"
)

var poolEngineAddr = common.HexToAddress(AMMPoolAddress)

// TransferValidator is the pipeline surface the engine consults for
// hook-gated mints. A nil result allows the transfer leg.
type TransferValidator interface {
	Validate(s contract.StateDB, mint common.Address, subject common.Address, direction hooks.Direction) error
}

// Engine is the AMM pool engine. Each public operation is one atomic unit of
// work: it re-reads authoritative state, validates everything, and writes
// back only on full success. The hosting runtime serializes writers per
// record, so there is no lock here; two swaps on distinct pools are fully
// independent.
type Engine struct {
	tokens    hooks.MintResolver
	validator TransferValidator
	log       log.Logger
}

// NewEngine creates a pool engine over the token layer and the validation
// pipeline.
func NewEngine(tokens hooks.MintResolver, validator TransferValidator) *Engine {
	return &Engine{
		tokens:    tokens,
		validator: validator,
		log:       log.NewTestLogger(log.InfoLevel),
	}
}

func configKey() common.Hash {
	return contract.Derive(nsPoolConfig)
}

func (e *Engine) config(s contract.StateDB) (*Config, error) {
	data, ok := contract.LoadBytes(s, poolEngineAddr, configKey())
	if !ok {
		return nil, ErrNotInitialized
	}
	return ConfigFromBytes(data)
}

func (e *Engine) writeConfig(s contract.StateDB, cfg *Config) {
	contract.StoreBytes(s, poolEngineAddr, configKey(), cfg.ToBytes())
}

func (e *Engine) pool(s contract.StateDB, id common.Hash) (*Pool, error) {
	data, ok := contract.LoadBytes(s, poolEngineAddr, id)
	if !ok {
		return nil, ErrPoolNotFound
	}
	return PoolFromBytes(data)
}

func (e *Engine) writePool(s contract.StateDB, id common.Hash, p *Pool) {
	contract.StoreBytes(s, poolEngineAddr, id, p.ToBytes())
}

// InitializeAMM creates the global pool config. Fails if called twice.
func (e *Engine) InitializeAMM(s contract.StateDB, caller common.Address, feeRateBps uint64) error {
	if feeRateBps > FeeRateMax {
		return ErrInvalidFeeRate
	}
	if _, ok := contract.LoadBytes(s, poolEngineAddr, configKey()); ok {
		return ErrAlreadyInitialized
	}
	if !s.Exist(poolEngineAddr) {
		s.CreateAccount(poolEngineAddr)
	}
	cfg := &Config{
		Authority:  caller,
		FeeRateBps: feeRateBps,
		Enabled:    true,
		CreatedAt:  s.GetBlockTime(),
	}
	e.writeConfig(s, cfg)
	e.log.Info("amm initialized, fee=" + strconv.FormatUint(feeRateBps, 10) + "bps")
	return nil
}

// SetEnabled flips the engine kill switch; mutating pool operations fail
// while it is off.
func (e *Engine) SetEnabled(s contract.StateDB, caller common.Address, enabled bool) error {
	cfg, err := e.config(s)
	if err != nil {
		return err
	}
	if caller != cfg.Authority {
		return ErrUnauthorized
	}
	cfg.Enabled = enabled
	e.writeConfig(s, cfg)
	return nil
}

// CreatePool creates an empty pool for an unordered mint pair. The pair is
// canonicalized, so (A,B) and (B,A) requests resolve to the same pool.
// Reserves start at zero; the first AddLiquidity seeds them.
func (e *Engine) CreatePool(
	s contract.StateDB,
	caller common.Address,
	mintA common.Address,
	mintB common.Address,
	initialPrice uint64,
) (common.Hash, error) {
	cfg, err := e.config(s)
	if err != nil {
		return common.Hash{}, err
	}
	if !cfg.Enabled {
		return common.Hash{}, ErrAMMDisabled
	}
	if mintA == mintB {
		return common.Hash{}, ErrInvalidTokenPair
	}

	a, b := SortMints(mintA, mintB)
	id := PoolID(a, b)
	if _, ok := contract.LoadBytes(s, poolEngineAddr, id); ok {
		return common.Hash{}, ErrPoolAlreadyExists
	}

	_, aGated := e.tokens.HookFor(s, a)
	_, bGated := e.tokens.HookFor(s, b)

	pool := &Pool{
		MintA:        a,
		MintB:        b,
		Creator:      caller,
		FeeRateBps:   cfg.FeeRateBps,
		InitialPrice: initialPrice,
		HookEnabled:  aGated || bGated,
		CreatedAt:    s.GetBlockTime(),
	}
	e.writePool(s, id, pool)

	cfg.TotalPools++
	e.writeConfig(s, cfg)

	e.log.Info("pool created: " + a.Hex() + "/" + b.Hex())
	return id, nil
}

// AddLiquidity deposits amountA of the pool's canonical mint A and amountB
// of mint B. The first deposit sets the exchange ratio; later deposits must
// match the pool ratio within one unit. Hook-gated mints are validated for
// the depositor before any reserve changes; a reject leaves the pool
// untouched.
func (e *Engine) AddLiquidity(
	s contract.StateDB,
	caller common.Address,
	id common.Hash,
	amountA uint64,
	amountB uint64,
) error {
	cfg, err := e.config(s)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		return ErrAMMDisabled
	}
	pool, err := e.pool(s, id)
	if err != nil {
		return err
	}
	if amountA == 0 || amountB == 0 {
		return ErrInvalidAmount
	}

	if pool.Seeded() {
		ok, err := ratioMatches(pool.ReserveA, pool.ReserveB, amountA, amountB)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRatioMismatch
		}
	}

	newA, err := addChecked(pool.ReserveA, amountA)
	if err != nil {
		return err
	}
	newB, err := addChecked(pool.ReserveB, amountB)
	if err != nil {
		return err
	}

	if pool.HookEnabled {
		if err := e.validator.Validate(s, pool.MintA, caller, hooks.DirectionDeposit); err != nil {
			return err
		}
		if err := e.validator.Validate(s, pool.MintB, caller, hooks.DirectionDeposit); err != nil {
			return err
		}
	}

	pool.ReserveA = newA
	pool.ReserveB = newB
	pool.LifecycleSeq++
	e.writePool(s, id, pool)
	return nil
}

// Swap trades amountIn of one side for the other at the constant-product
// price, charging the fee on the input. The outgoing mint (the leg that
// crosses into the trader's account) is validated as a withdrawal when the
// pool is hook-gated; a reject aborts the swap with zero reserve mutation.
func (e *Engine) Swap(
	s contract.StateDB,
	caller common.Address,
	id common.Hash,
	amountIn uint64,
	minimumAmountOut uint64,
	aToB bool,
) (uint64, error) {
	cfg, err := e.config(s)
	if err != nil {
		return 0, err
	}
	if !cfg.Enabled {
		return 0, ErrAMMDisabled
	}
	pool, err := e.pool(s, id)
	if err != nil {
		return 0, err
	}
	if amountIn == 0 {
		return 0, ErrInvalidAmount
	}
	if !pool.Seeded() {
		return 0, ErrInsufficientLiquidity
	}

	reserveIn, reserveOut := pool.ReserveA, pool.ReserveB
	mintOut := pool.MintB
	if !aToB {
		reserveIn, reserveOut = pool.ReserveB, pool.ReserveA
		mintOut = pool.MintA
	}

	effIn, err := effectiveIn(amountIn, pool.FeeRateBps)
	if err != nil {
		return 0, err
	}
	amountOut, err := swapOutput(reserveIn, reserveOut, effIn)
	if err != nil {
		return 0, err
	}
	if amountOut < minimumAmountOut {
		return 0, ErrSlippageExceeded
	}

	newIn, err := addChecked(reserveIn, amountIn)
	if err != nil {
		return 0, err
	}
	newOut := reserveOut - amountOut

	if pool.HookEnabled {
		if err := e.validator.Validate(s, mintOut, caller, hooks.DirectionWithdraw); err != nil {
			return 0, err
		}
	}

	if aToB {
		pool.ReserveA, pool.ReserveB = newIn, newOut
	} else {
		pool.ReserveA, pool.ReserveB = newOut, newIn
	}
	pool.LifecycleSeq++
	e.writePool(s, id, pool)
	return amountOut, nil
}

// PoolInfo returns the durable state of a pool. Pure read.
func (e *Engine) PoolInfo(s contract.StateDB, id common.Hash) (*Pool, error) {
	return e.pool(s, id)
}
