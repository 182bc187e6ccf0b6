package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/battvalue/valuator/internal/domain"
)

type mockSource struct {
	name  string
	data  SourceData
	err   error
	calls int
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(_ context.Context, _ string) (SourceData, error) {
	m.calls++
	return m.data, m.err
}

func TestGetSnapshotAllTiersFail(t *testing.T) {
	primary := &mockSource{name: "primary", err: errors.New("timeout")}
	secondary := &mockSource{name: "secondary", err: errors.New("down")}

	svc := NewService(primary, secondary)
	snap, err := svc.GetSnapshot(context.Background(), "CAD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.PriceSource != "fallback" {
		t.Errorf("PriceSource = %q, want fallback", snap.PriceSource)
	}
	if !snap.FXFallbackUsed {
		t.Error("FXFallbackUsed = false, want true")
	}
	if snap.FXRate != 1.40 {
		t.Errorf("FXRate = %v, want 1.40", snap.FXRate)
	}

	// Static nickel: 16500 USD/t -> 16.5 USD/kg -> 23.1 CAD/kg.
	wantNi := 16500.0 / 1000.0 * 1.40
	if got := snap.SpotPrice(domain.MetalNickel); !within(got, wantNi, 1e-9) {
		t.Errorf("Ni spot = %v, want %v", got, wantNi)
	}

	for m, p := range snap.Spot {
		if p < 0 {
			t.Errorf("negative price for %s: %v", m, p)
		}
	}
}

func TestGetSnapshotPrimaryWinsOverSecondary(t *testing.T) {
	primary := &mockSource{
		name: "primary",
		data: SourceData{
			PricesUSDPerTonne: map[domain.MetalSymbol]float64{
				domain.MetalNickel: 18000,
				domain.MetalCopper: 10000,
			},
			FXRates: map[string]float64{"EUR": 0.90},
		},
	}
	secondary := &mockSource{
		name: "secondary",
		data: SourceData{
			PricesUSDPerTonne: map[domain.MetalSymbol]float64{
				domain.MetalCopper:   8000, // must lose to primary
				domain.MetalAluminum: 2600, // fills a gap
			},
			FXRates: map[string]float64{"EUR": 0.95},
		},
	}

	svc := NewService(primary, secondary)
	snap, err := svc.GetSnapshot(context.Background(), "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.PriceSource != "primary" {
		t.Errorf("PriceSource = %q, want primary", snap.PriceSource)
	}
	if snap.FXFallbackUsed {
		t.Error("FXFallbackUsed = true, want false")
	}
	if snap.FXRate != 0.90 {
		t.Errorf("FXRate = %v, want primary's 0.90", snap.FXRate)
	}

	if got, want := snap.SpotPrice(domain.MetalCopper), 10000.0/1000.0*0.90; !within(got, want, 1e-9) {
		t.Errorf("Cu spot = %v, want primary-derived %v", got, want)
	}
	if got, want := snap.SpotPrice(domain.MetalAluminum), 2600.0/1000.0*0.90; !within(got, want, 1e-9) {
		t.Errorf("Al spot = %v, want secondary-derived %v", got, want)
	}
	// Cobalt comes from the static table, converted the same way.
	if got, want := snap.SpotPrice(domain.MetalCobalt), 33000.0/1000.0*0.90; !within(got, want, 1e-9) {
		t.Errorf("Co spot = %v, want static-derived %v", got, want)
	}
}

func TestGetSnapshotFXFallbackFlagOnPricesOnlyPrimary(t *testing.T) {
	primary := &mockSource{
		name: "primary",
		data: SourceData{
			PricesUSDPerTonne: map[domain.MetalSymbol]float64{domain.MetalNickel: 17000},
		},
	}

	svc := NewService(primary)
	snap, err := svc.GetSnapshot(context.Background(), "CNY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.PriceSource != "primary" {
		t.Errorf("PriceSource = %q, want primary", snap.PriceSource)
	}
	if !snap.FXFallbackUsed {
		t.Error("FXFallbackUsed = false, want true (primary supplied no FX)")
	}
	if snap.FXRate != 7.25 {
		t.Errorf("FXRate = %v, want static 7.25", snap.FXRate)
	}
}

func TestGetSnapshotUSDNeverFlagsFXFallback(t *testing.T) {
	svc := NewService()
	snap, err := svc.GetSnapshot(context.Background(), "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.FXRate != 1.0 {
		t.Errorf("FXRate = %v, want 1.0", snap.FXRate)
	}
	if snap.FXFallbackUsed {
		t.Error("FXFallbackUsed = true for USD")
	}
}

func TestGetSnapshotCacheHitSkipsSources(t *testing.T) {
	primary := &mockSource{
		name: "primary",
		data: SourceData{
			PricesUSDPerTonne: map[domain.MetalSymbol]float64{domain.MetalNickel: 17000},
		},
	}

	svc := NewService(primary)
	first, err := svc.GetSnapshot(context.Background(), "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetSnapshot(context.Background(), "USD")
	if err != nil {
		t.Fatalf("unexpected error on cached call: %v", err)
	}

	if primary.calls != 1 {
		t.Errorf("primary called %d times, want 1 (second call must hit cache)", primary.calls)
	}
	if !second.CapturedAt.Equal(first.CapturedAt) {
		t.Errorf("cached snapshot timestamp changed: %v != %v", second.CapturedAt, first.CapturedAt)
	}
}

func TestGetSnapshotExpiryYieldsNewerTimestamp(t *testing.T) {
	svc := NewService()
	first, err := svc.GetSnapshot(context.Background(), "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Backdate the resident entry past the TTL to force a refresh.
	svc.cache.mu.Lock()
	entry := svc.cache.entries["EUR"]
	entry.insertedAt = entry.insertedAt.Add(-snapshotTTL - time.Second)
	svc.cache.entries["EUR"] = entry
	svc.cache.mu.Unlock()

	second, err := svc.GetSnapshot(context.Background(), "EUR")
	if err != nil {
		t.Fatalf("unexpected error after expiry: %v", err)
	}
	if second.CapturedAt.Before(first.CapturedAt) {
		t.Errorf("refreshed snapshot timestamp %v regressed below %v", second.CapturedAt, first.CapturedAt)
	}
}

func TestGetSnapshotCurrenciesAreIndependent(t *testing.T) {
	svc := NewService()
	usd, err := svc.GetSnapshot(context.Background(), "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cad, err := svc.GetSnapshot(context.Background(), "CAD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usd.FXRate == cad.FXRate {
		t.Error("USD and CAD snapshots share an FX rate")
	}
}

func TestDerivedProductPrices(t *testing.T) {
	svc := NewService()
	snap, err := svc.GetSnapshot(context.Background(), "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNiSO4 := snap.SpotPrice(domain.MetalNickel) / domain.FactorNiToSulphate
	if got := snap.ProductPrice(domain.ProductNickelSulphate); !within(got, wantNiSO4, 1e-9) {
		t.Errorf("NiSO4 = %v, want spot-derived %v", got, wantNiSO4)
	}
	wantCoSO4 := snap.SpotPrice(domain.MetalCobalt) / domain.FactorCoToSulphate
	if got := snap.ProductPrice(domain.ProductCobaltSulphate); !within(got, wantCoSO4, 1e-9) {
		t.Errorf("CoSO4 = %v, want spot-derived %v", got, wantCoSO4)
	}
	if got := snap.ProductPrice(domain.ProductLCE); !within(got, 14.0, 1e-9) {
		t.Errorf("LCE = %v, want 14.0 (static, USD)", got)
	}
	if got := snap.ProductPrice(domain.ProductLiOH); !within(got, 15.5, 1e-9) {
		t.Errorf("LiOH = %v, want 15.5 (static, USD)", got)
	}
}

func within(got, want, tol float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}
