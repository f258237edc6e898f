package boxkind

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tos-network/oraclepool/address"
	"github.com/tos-network/oraclepool/box"
	"github.com/tos-network/oraclepool/common"
	"github.com/tos-network/oraclepool/contracts/ballot"
	"github.com/tos-network/oraclepool/crypto"
	"github.com/tos-network/oraclepool/ergotree"
	"github.com/tos-network/oraclepool/log"
	"github.com/tos-network/oraclepool/oracleconfig"
	"github.com/tos-network/oraclepool/sigma"
)

const (
	testMinStorageRent = 10_000_000
	testRewardQuantity = 5000
	testUpdateHeight   = 1_234_567
	testBoxValue       = testMinStorageRent
	testCreationHeight = 1_250_000
)

func tokenID(b byte) common.TokenID {
	var id common.TokenID
	for i := range id {
		id[i] = b
	}
	return id
}

func newTestOwner(t *testing.T) crypto.ProveDlog {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return crypto.NewProveDlog(crypto.NewEcPoint(priv.PubKey()))
}

type testEnv struct {
	owner       crypto.ProveDlog
	inputs      BallotBoxInputs
	contract    *ballot.Contract
	ballotToken box.Token
	poolBoxHash common.Digest32
	reward      box.Token
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	constants := []sigma.Constant{
		sigma.Long(0),
		sigma.Int(4),
		sigma.Int(0),
		sigma.Boolean(true),
		sigma.Int(5),
		sigma.Int(1),
		sigma.CollByte(make([]byte, 32)),
	}
	tree, err := ergotree.New(ergotree.DefaultHeader, constants, []byte{0xd8, 0x07, 0xd6, 0x01, 0xb2, 0xa5, 0x73, 0x00})
	require.NoError(t, err)
	raw, err := tree.Bytes()
	require.NoError(t, err)

	env := &testEnv{
		owner:       newTestOwner(t),
		ballotToken: box.Token{ID: tokenID(0xba), Amount: 1},
		poolBoxHash: common.Blake2b256([]byte("pool box script")),
		reward:      box.Token{ID: tokenID(0x7e), Amount: testRewardQuantity},
	}
	env.inputs = BallotBoxInputs{
		Parameters: &oracleconfig.BallotBoxWrapperParameters{
			ContractParameters: oracleconfig.BallotContractParameters{
				ErgoTreeBytes:       raw,
				MinStorageRentIndex: 0,
				MinStorageRent:      testMinStorageRent,
				UpdateNFTIndex:      6,
			},
			VoteParameters: &oracleconfig.CastBallotBoxVoteParameters{
				RewardTokenID:       env.reward.ID,
				RewardTokenQuantity: testRewardQuantity,
				PoolBoxAddressHash:  env.poolBoxHash.Hex(),
			},
			BallotTokenOwnerAddress: address.NewEncoder(address.Mainnet).Encode(address.NewP2PK(env.owner)),
		},
		BallotTokenID:    env.ballotToken.ID,
		UpdateNFTTokenID: tokenID(0x0f),
	}
	env.contract, err = ballot.Create(env.inputs.contractInputs())
	require.NoError(t, err)
	return env
}

func (env *testEnv) candidate(t *testing.T) *box.Candidate {
	t.Helper()
	c, err := MakeBallotBoxCandidate(env.contract, env.owner, testUpdateHeight, env.ballotToken,
		env.poolBoxHash, env.reward, testBoxValue, testCreationHeight)
	require.NoError(t, err)
	return c
}

func confirm(t *testing.T, c *box.Candidate) *box.ErgoBox {
	t.Helper()
	b, err := box.NewErgoBox(c, common.Blake2b256([]byte("tx")), 0)
	require.NoError(t, err)
	return b
}

// withRegisters returns a confirmed copy of c with its registers rewritten by fn.
func withRegisters(t *testing.T, c *box.Candidate, fn func(map[box.RegisterID]sigma.Constant)) *box.ErgoBox {
	t.Helper()
	m := c.Registers.Map()
	fn(m)
	regs, err := box.NewRegisters(m)
	require.NoError(t, err)
	cpy := *c
	cpy.Registers = regs
	return confirm(t, &cpy)
}

func TestBallotBoxRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	b := confirm(t, env.candidate(t))

	bb, warnings, err := NewBallotBox(b, env.inputs)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, env.ballotToken, bb.BallotToken())
	assert.True(t, bb.BallotTokenOwner().Equal(env.owner))
	assert.Equal(t, uint64(testMinStorageRent), bb.MinStorageRent())
	assert.True(t, bb.Contract().ErgoTree().Equal(env.contract.ErgoTree()))
	assert.Equal(t, b.ID(), bb.Box().ID())
	assert.Equal(t, Vote{
		UpdateBoxCreationHeight: testUpdateHeight,
		PoolBoxAddressHash:      env.poolBoxHash,
		RewardTokenID:           env.reward.ID,
		RewardTokenQuantity:     testRewardQuantity,
	}, bb.Vote())
	assert.Len(t, bb.Box().Tokens(), 1)
}

func TestBallotBoxIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.inputs.Parameters.VoteParameters.RewardTokenQuantity = 1
	b := confirm(t, env.candidate(t))

	first, w1, err1 := NewBallotBox(b, env.inputs)
	second, w2, err2 := NewBallotBox(b, env.inputs)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, w1, w2)
	assert.Equal(t, first.Vote(), second.Vote())
	assert.Equal(t, first.Box().ID(), second.Box().ID())
}

func TestBallotBoxVoteNotCast(t *testing.T) {
	env := newTestEnv(t)
	b := confirm(t, env.candidate(t))

	inputs := env.inputs
	params := *inputs.Parameters
	params.VoteParameters = nil
	inputs.Parameters = &params
	_, _, err := NewBallotBox(b, inputs)
	assert.ErrorIs(t, err, ErrExpectedVoteCast)

	inputs.Parameters = nil
	_, _, err = NewBallotBox(b, inputs)
	assert.ErrorIs(t, err, ErrExpectedVoteCast)

	// A missing vote is reported before anything about the box itself.
	empty := *env.candidate(t)
	empty.Tokens = nil
	empty.Registers = box.Registers{}
	inputs.Parameters = &params
	_, _, err = NewBallotBox(confirm(t, &empty), inputs)
	if !errors.Is(err, ErrExpectedVoteCast) {
		t.Fatalf("empty box without vote: want ErrExpectedVoteCast, got %v", err)
	}
	if errors.Is(err, ErrNoBallotToken) {
		t.Fatalf("empty box without vote: token check ran first: %v", err)
	}
}

func TestBallotBoxTokenGate(t *testing.T) {
	env := newTestEnv(t)
	c := env.candidate(t)

	noTokens := *c
	noTokens.Tokens = nil
	_, _, err := NewBallotBox(confirm(t, &noTokens), env.inputs)
	assert.ErrorIs(t, err, ErrNoBallotToken)

	otherToken := *c
	otherToken.Tokens = []box.Token{{ID: tokenID(0x01), Amount: 1}}
	_, _, err = NewBallotBox(confirm(t, &otherToken), env.inputs)
	assert.ErrorIs(t, err, ErrUnknownBallotTokenID)

	// The ballot token has to be first.
	reordered := *c
	reordered.Tokens = []box.Token{{ID: tokenID(0x01), Amount: 1}, env.ballotToken}
	_, _, err = NewBallotBox(confirm(t, &reordered), env.inputs)
	assert.ErrorIs(t, err, ErrUnknownBallotTokenID)
}

func TestBallotBoxOwnerGate(t *testing.T) {
	env := newTestEnv(t)
	b := confirm(t, env.candidate(t))

	inputs := env.inputs
	params := *inputs.Parameters
	params.BallotTokenOwnerAddress = address.NewEncoder(address.Mainnet).Encode(address.NewP2PK(newTestOwner(t)))
	inputs.Parameters = &params
	_, _, err := NewBallotBox(b, inputs)
	assert.ErrorIs(t, err, ErrUnexpectedGroupElementInR4)

	// The owner address network is not checked.
	params.BallotTokenOwnerAddress = address.NewEncoder(address.Testnet).Encode(address.NewP2PK(env.owner))
	_, _, err = NewBallotBox(b, inputs)
	assert.NoError(t, err)

	params.BallotTokenOwnerAddress = "not an address"
	_, _, err = NewBallotBox(b, inputs)
	assert.ErrorIs(t, err, ErrAddressEncoder)
	assert.ErrorIs(t, err, oracleconfig.ErrInvalidOwner)

	// A script address can never match a group element.
	p2s, err := address.NewP2S(env.contract.ErgoTree())
	require.NoError(t, err)
	params.BallotTokenOwnerAddress = address.NewEncoder(address.Mainnet).Encode(p2s)
	_, _, err = NewBallotBox(b, inputs)
	assert.ErrorIs(t, err, ErrUnexpectedGroupElementInR4)
}

func TestBallotBoxMissingRegisters(t *testing.T) {
	env := newTestEnv(t)
	c := env.candidate(t)

	tests := []struct {
		name string
		drop []box.RegisterID
		want error
	}{
		{"R8", []box.RegisterID{box.R8}, ErrNoRewardTokenQuantityInR8},
		{"R7", []box.RegisterID{box.R7, box.R8}, ErrNoRewardTokenIDInR7},
		{"R6", []box.RegisterID{box.R6, box.R7, box.R8}, ErrNoPoolBoxAddressInR6},
		{"R5", []box.RegisterID{box.R5, box.R6, box.R7, box.R8}, ErrNoUpdateBoxCreationHeightInR5},
		{"R4", []box.RegisterID{box.R4, box.R5, box.R6, box.R7, box.R8}, ErrNoGroupElementInR4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := withRegisters(t, c, func(m map[box.RegisterID]sigma.Constant) {
				for _, id := range tt.drop {
					delete(m, id)
				}
			})
			_, _, err := NewBallotBox(b, env.inputs)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, box.ErrRegisterNotFound)
		})
	}
}

func TestBallotBoxMistypedRegisters(t *testing.T) {
	env := newTestEnv(t)
	c := env.candidate(t)

	tests := []struct {
		id   box.RegisterID
		val  sigma.Constant
		want error
	}{
		{box.R4, sigma.Int(1), ErrNoGroupElementInR4},
		{box.R4, sigma.SigmaProp(env.owner), ErrNoGroupElementInR4},
		{box.R5, sigma.Long(testUpdateHeight), ErrNoUpdateBoxCreationHeightInR5},
		{box.R6, sigma.CollByte(make([]byte, 31)), ErrNoPoolBoxAddressInR6},
		{box.R6, sigma.Int(0), ErrNoPoolBoxAddressInR6},
		{box.R7, sigma.CollByte(make([]byte, 33)), ErrNoRewardTokenIDInR7},
		{box.R8, sigma.Long(testRewardQuantity), ErrNoRewardTokenQuantityInR8},
	}
	for _, tt := range tests {
		t.Run(tt.id.String()+"/"+tt.val.Type.String(), func(t *testing.T) {
			b := withRegisters(t, c, func(m map[box.RegisterID]sigma.Constant) { m[tt.id] = tt.val })
			_, _, err := NewBallotBox(b, env.inputs)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, sigma.ErrTypeMismatch)
		})
	}
}

// Votes drift from the local config while voting is in progress, so value
// differences in R6 to R8 only produce warnings.
func TestBallotBoxVoteDiffers(t *testing.T) {
	env := newTestEnv(t)
	c := env.candidate(t)

	t.Run("quantity", func(t *testing.T) {
		b := withRegisters(t, c, func(m map[box.RegisterID]sigma.Constant) {
			m[box.R8] = sigma.Int(testRewardQuantity - 1)
		})
		bb, warnings, err := NewBallotBox(b, env.inputs)
		require.NoError(t, err)
		assert.Equal(t, Warnings{WarnRewardTokenQuantityDiffers}, warnings)
		assert.Equal(t, uint32(testRewardQuantity-1), bb.Vote().RewardTokenQuantity)
	})
	t.Run("all", func(t *testing.T) {
		b := withRegisters(t, c, func(m map[box.RegisterID]sigma.Constant) {
			m[box.R6] = sigma.CollByte(make([]byte, 32))
			m[box.R7] = sigma.CollByte(tokenID(0x11).Bytes())
			m[box.R8] = sigma.Int(1)
		})
		_, warnings, err := NewBallotBox(b, env.inputs)
		require.NoError(t, err, spew.Sdump(b.Registers().Map()))
		assert.Equal(t, Warnings{WarnPoolBoxAddressDiffers, WarnRewardTokenIDDiffers, WarnRewardTokenQuantityDiffers}, warnings)
	})
}

func TestBallotBoxUnsignedQuantity(t *testing.T) {
	env := newTestEnv(t)
	env.inputs.Parameters.VoteParameters.RewardTokenQuantity = 0xffffffff
	b := withRegisters(t, env.candidate(t), func(m map[box.RegisterID]sigma.Constant) { m[box.R8] = sigma.Int(-1) })

	bb, warnings, err := NewBallotBox(b, env.inputs)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, uint32(0xffffffff), bb.Vote().RewardTokenQuantity)
}

func TestBallotBoxWarningsLogged(t *testing.T) {
	env := newTestEnv(t)
	b := withRegisters(t, env.candidate(t), func(m map[box.RegisterID]sigma.Constant) {
		m[box.R8] = sigma.Int(testRewardQuantity - 1)
	})

	var records []*log.Record
	prev := log.Root().GetHandler()
	log.Root().SetHandler(log.LvlFilterHandler(log.LvlWarn, log.FuncHandler(func(r *log.Record) error {
		records = append(records, r)
		return nil
	})))
	defer log.Root().SetHandler(prev)

	_, warnings, err := NewBallotBox(b, env.inputs)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Len(t, records, 1)
	assert.Equal(t, log.LvlWarn, records[0].Lvl)
	assert.Contains(t, records[0].Msg, "quantity")
	assert.Contains(t, records[0].Ctx, uint32(testRewardQuantity-1))
}

func TestBallotBoxConfigErrors(t *testing.T) {
	env := newTestEnv(t)
	b := confirm(t, env.candidate(t))

	env.inputs.Parameters.VoteParameters.PoolBoxAddressHash = "zz"
	_, _, err := NewBallotBox(b, env.inputs)
	assert.ErrorIs(t, err, ErrInvalidPoolBoxAddressHash)
	assert.ErrorIs(t, err, oracleconfig.ErrInvalidPoolBoxHash)
}

func TestBallotBoxContractErrors(t *testing.T) {
	env := newTestEnv(t)
	b := confirm(t, env.candidate(t))

	inputs := env.inputs
	inputs.UpdateNFTTokenID = tokenID(0x0e)
	_, _, err := NewBallotBox(b, inputs)
	assert.ErrorIs(t, err, ErrBallotContract)
	assert.ErrorIs(t, err, ballot.ErrUpdateNFTDiffers)

	params := *env.inputs.Parameters
	params.ContractParameters.MinStorageRent++
	inputs = env.inputs
	inputs.Parameters = &params
	_, _, err = NewBallotBox(b, inputs)
	assert.ErrorIs(t, err, ErrBallotContract)
	assert.ErrorIs(t, err, ballot.ErrMinStorageRentDiffers)

	// A box guarded by some other script.
	other, err := ergotree.New(ergotree.DefaultHeader, nil, []byte{0xd1, 0x7f})
	require.NoError(t, err)
	c := env.candidate(t)
	c.ErgoTree = other
	_, _, err = NewBallotBox(confirm(t, c), env.inputs)
	assert.ErrorIs(t, err, ErrBallotContract)
	assert.ErrorIs(t, err, ballot.ErrTemplateMismatch)
}

func TestBallotBoxErrorOrder(t *testing.T) {
	env := newTestEnv(t)
	c := env.candidate(t)

	// Token checks run before any register is looked at.
	noTokens := *c
	noTokens.Tokens = nil
	b := withRegisters(t, &noTokens, func(m map[box.RegisterID]sigma.Constant) { m[box.R4] = sigma.Int(0) })
	_, _, err := NewBallotBox(b, env.inputs)
	assert.True(t, errors.Is(err, ErrNoBallotToken), "got %v", err)
}

func TestWarningString(t *testing.T) {
	assert.Contains(t, WarnPoolBoxAddressDiffers.String(), "R6")
	assert.Contains(t, WarnRewardTokenIDDiffers.String(), "R7")
	assert.Contains(t, WarnRewardTokenQuantityDiffers.String(), "R8")
	assert.Equal(t, "warning(9)", Warning(9).String())

	ws := Warnings{WarnRewardTokenIDDiffers}
	assert.True(t, ws.Has(WarnRewardTokenIDDiffers))
	assert.False(t, ws.Has(WarnPoolBoxAddressDiffers))
}
