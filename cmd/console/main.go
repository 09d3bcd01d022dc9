// Command console runs a scripted session against an in-memory pool engine:
// seed two accounts, provide liquidity, trade both directions, quote, and
// withdraw, printing the pool state after each step.
package main

import (
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/defistate/amm-engine-go/custody"
	"github.com/defistate/amm-engine-go/engine"
	"github.com/defistate/amm-engine-go/events"
)

var (
	assetA = common.HexToAddress("0xA000000000000000000000000000000000000001")
	assetB = common.HexToAddress("0xB000000000000000000000000000000000000002")

	alice = common.HexToAddress("0x1000000000000000000000000000000000000001")
	bob   = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func main() {
	rootLogHandler := slog.NewJSONHandler(os.Stderr, nil)
	rootLogger := slog.New(rootLogHandler)

	closeApp := func() {
		os.Exit(1)
	}

	vault := custody.NewMemoryVault()
	vault.Seed(alice, assetA, big.NewInt(1_000_000))
	vault.Seed(alice, assetB, big.NewInt(2_000_000))
	vault.Seed(bob, assetA, big.NewInt(500_000))
	vault.Seed(bob, assetB, big.NewInt(500_000))

	broadcaster, err := events.NewBroadcaster(&events.BroadcasterConfig{
		BufferSize: 64,
		Logger:     rootLogger.With("component", "broadcaster"),
	})
	if err != nil {
		rootLogger.Error("Failed to initialize broadcaster", "error", err)
		closeApp()
	}

	eng, err := engine.New(&engine.Config{
		AssetA:   assetA,
		AssetB:   assetB,
		Custody:  vault,
		Sink:     broadcaster,
		Logger:   rootLogger.With("component", "engine"),
		Registry: prometheus.DefaultRegisterer,
	})
	if err != nil {
		rootLogger.Error("Failed to initialize engine", "error", err)
		closeApp()
	}

	step := func(name string, fn func() error) {
		if err := fn(); err != nil {
			rootLogger.Error("step failed", "step", name, "error", err)
			closeApp()
		}
		dumpState(name, eng)
	}

	step("alice provides 100000/200000", func() error {
		_, err := eng.ProvideLiquidity(alice, big.NewInt(100_000), big.NewInt(200_000))
		return err
	})
	step("bob provides 50000/100000", func() error {
		_, err := eng.ProvideLiquidity(bob, big.NewInt(50_000), big.NewInt(100_000))
		return err
	})
	step("bob swaps 10000 A for B", func() error {
		out, err := eng.SwapAForB(bob, big.NewInt(10_000))
		if err == nil {
			fmt.Printf("  received %s of asset B\n", out)
		}
		return err
	})
	step("alice swaps 5000 B for A", func() error {
		out, err := eng.SwapBForA(alice, big.NewInt(5_000))
		if err == nil {
			fmt.Printf("  received %s of asset A\n", out)
		}
		return err
	})

	reserveA, reserveB := eng.Reserves()
	quote, err := eng.QuoteOut(big.NewInt(1_000), reserveA, reserveB)
	if err != nil {
		rootLogger.Error("quote failed", "error", err)
		closeApp()
	}
	fmt.Printf("quote: 1000 A -> %s B (no state change)\n", quote)

	step("alice withdraws half her shares", func() error {
		half := eng.SharesOf(alice)
		half.Div(half, big.NewInt(2))
		a, b, err := eng.RemoveLiquidity(alice, half)
		if err == nil {
			fmt.Printf("  withdrew %s A, %s B\n", a, b)
		}
		return err
	})

	drainEvents(broadcaster)

	if err := eng.CheckInvariants(); err != nil {
		rootLogger.Error("invariant check failed", "error", err)
		closeApp()
	}
	fmt.Println("all invariants hold")
}

func dumpState(title string, eng *engine.Engine) {
	state := eng.State()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, ":: %s\n", title)
	fmt.Fprintf(w, "\treserveA\t%s\n", state.ReserveA)
	fmt.Fprintf(w, "\treserveB\t%s\n", state.ReserveB)
	fmt.Fprintf(w, "\ttotalShares\t%s\n", state.TotalShares)
	if price, err := eng.SpotPrice(); err == nil {
		fmt.Fprintf(w, "\tspotPrice(1e18)\t%s\n", price)
	}
	w.Flush()
}

func drainEvents(b *events.Broadcaster) {
	for {
		select {
		case n := <-b.Events():
			fmt.Printf("event: %s\n", n.Kind)
		default:
			return
		}
	}
}
