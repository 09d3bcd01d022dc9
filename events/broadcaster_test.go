package events

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	infos []string
	warns []string
}

func (l *recordingLogger) Debug(msg string, args ...any) {}
func (l *recordingLogger) Info(msg string, args ...any)  { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(msg string, args ...any) {}

func TestBroadcasterConfigValidation(t *testing.T) {
	_, err := NewBroadcaster(&BroadcasterConfig{BufferSize: 0, Logger: &recordingLogger{}})
	assert.Error(t, err)

	_, err = NewBroadcaster(&BroadcasterConfig{BufferSize: 1, Logger: nil})
	assert.Error(t, err)
}

func TestBroadcasterDelivers(t *testing.T) {
	b, err := NewBroadcaster(&BroadcasterConfig{BufferSize: 4, Logger: &recordingLogger{}})
	require.NoError(t, err)

	provider := common.HexToAddress("0x01")
	b.OnLiquidityAdded(LiquidityAdded{Provider: provider, SharesMinted: big.NewInt(141)})
	b.OnSwap(Swap{Direction: DirectionAForB, AmountIn: big.NewInt(10), AmountOut: big.NewInt(18)})
	b.OnLiquidityRemoved(LiquidityRemoved{Provider: provider, SharesBurned: big.NewInt(70)})

	n := <-b.Events()
	require.Equal(t, KindLiquidityAdded, n.Kind)
	require.NotNil(t, n.LiquidityAdded)
	assert.Equal(t, int64(141), n.LiquidityAdded.SharesMinted.Int64())

	n = <-b.Events()
	require.Equal(t, KindSwap, n.Kind)
	require.NotNil(t, n.Swap)
	assert.Equal(t, DirectionAForB, n.Swap.Direction)

	n = <-b.Events()
	require.Equal(t, KindLiquidityRemoved, n.Kind)
	require.NotNil(t, n.LiquidityRemoved)
}

func TestBroadcasterDropsWhenFull(t *testing.T) {
	logger := &recordingLogger{}
	b, err := NewBroadcaster(&BroadcasterConfig{BufferSize: 1, Logger: logger})
	require.NoError(t, err)

	b.OnSwap(Swap{AmountIn: big.NewInt(1)})
	b.OnSwap(Swap{AmountIn: big.NewInt(2)}) // buffer full, dropped

	assert.Len(t, logger.warns, 1)

	n := <-b.Events()
	assert.Equal(t, int64(1), n.Swap.AmountIn.Int64())
	select {
	case <-b.Events():
		t.Fatal("expected dropped notification")
	default:
	}
}

func TestLogSink(t *testing.T) {
	logger := &recordingLogger{}
	sink := LogSink{Logger: logger}

	sink.OnLiquidityAdded(LiquidityAdded{SharesMinted: big.NewInt(141)})
	sink.OnSwap(Swap{Direction: DirectionBForA, AmountIn: big.NewInt(10)})
	sink.OnLiquidityRemoved(LiquidityRemoved{SharesBurned: big.NewInt(70)})

	require.Len(t, logger.infos, 3)
	assert.Equal(t, []string{"liquidity added", "swap", "liquidity removed"}, logger.infos)
}
