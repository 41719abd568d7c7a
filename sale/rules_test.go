package sale

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMainnetRules verifies the production preset carries the launch
// parameters: 1923 items, a 1585-item auction pool, a 50-item dev pool and
// an implicit 288-item pool shared by the allowlist and public phases.
func TestMainnetRules(t *testing.T) {
	require := require.New(t)
	r := MainnetRules()

	require.NoError(r.Validate())
	require.Equal("mainnet", r.Name)
	require.Equal(uint64(1923), r.Collection.TotalSupply)
	require.Equal(uint64(1585), r.Collection.AuctionSupply)
	require.Equal(uint64(50), r.Collection.DevSupply)
	require.Equal(uint64(288), r.Collection.PublicSupply())
	require.Equal(uint64(5), r.Eth.NumTiers())
	require.Equal(uint64(5), r.Stars.NumTiers())

	// 1 ETH = 3000 USD, 1 STARS = 0.05 USD.
	require.Zero(r.Rates.EthUSD.Cmp(ether(3000)))
	require.Zero(r.Rates.StarsUSD.Cmp(milliEther(50)))
}

func TestFakeRules(t *testing.T) {
	require := require.New(t)
	start := Timestamp(1700000000)
	r := FakeRules(start)

	require.NoError(r.Validate())
	require.Equal(start, r.Schedule.AuctionStart)
	require.True(r.Schedule.AuctionEnd > r.Schedule.AuctionStart)
	require.Equal(uint64(8), r.Collection.PublicSupply())
}

func TestValidateRejectsBadRules(t *testing.T) {
	require := require.New(t)

	r := MainnetRules()
	r.Collection.AuctionSupply = r.Collection.TotalSupply + 1
	require.Error(r.Validate())

	r = MainnetRules()
	r.Eth.StartPrice, r.Eth.EndPrice = r.Eth.EndPrice, r.Eth.StartPrice
	require.Error(r.Validate())

	r = MainnetRules()
	r.Eth.PriceStep = deciEther(3) // 0.8 range not divisible by 0.3
	require.Error(r.Validate())

	r = MainnetRules()
	r.Eth.StepInterval = 0
	require.Error(r.Validate())

	r = MainnetRules()
	r.Rates.StarsUSD = nil
	require.Error(r.Validate())
}

// TestRulesJSONRoundTrip ensures rules survive marshalling, which the config
// dump and ledger snapshot rely on.
func TestRulesJSONRoundTrip(t *testing.T) {
	require := require.New(t)
	r := FakeRules(Timestamp(1700000000))

	raw, err := json.Marshal(r)
	require.NoError(err)

	var got Rules
	require.NoError(json.Unmarshal(raw, &got))
	require.Equal(r.Name, got.Name)
	require.Equal(r.Collection, got.Collection)
	require.Equal(r.Schedule, got.Schedule)
	require.Zero(r.Eth.StartPrice.Cmp(got.Eth.StartPrice))
	require.Zero(r.Stars.PriceStep.Cmp(got.Stars.PriceStep))
	require.Zero(r.Rates.EthUSD.Cmp(got.Rates.EthUSD))
	require.Equal(r.Eth.StepInterval, got.Eth.StepInterval)
}

func TestRulesCopyDoesNotAlias(t *testing.T) {
	require := require.New(t)
	r := MainnetRules()
	cp := r.Copy()

	cp.Eth.StartPrice.SetInt64(1)
	require.NotZero(r.Eth.StartPrice.Cmp(cp.Eth.StartPrice))
}
