package engine

import "testing"

func TestIncome_BaseOnly(t *testing.T) {
	s := newTestState("income-1", 3)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 0
	withSoldiers(s, 0, 0)
	withSoldiers(s, 1, 0)

	if got := Income(s, 0); got != 2 {
		t.Fatalf("expected base income of 2 regions, got %d", got)
	}
}

func TestIncome_SoldiersAtTemplesCount(t *testing.T) {
	s := newTestState("income-2", 2)
	s.OwnersByRegion[0] = 0
	s.TemplesByRegion[0] = Temple{Region: 0}
	withSoldiers(s, 0, 5)

	// base = 1 region + 5 soldiers at the temple = 6, no water bonus.
	if got := Income(s, 0); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}

func TestIncome_WaterTempleBonus(t *testing.T) {
	// base 7 (2 regions + 5 soldiers at the temple), one L0 WATER temple
	// => +20%, floor(7*1.20) = 8.
	s := newTestState("income-3", 2)
	s.OwnersByRegion[0] = 0
	s.TemplesByRegion[0] = Temple{Region: 0, UpgradeIndex: UpgradeWater, Level: 0}
	withSoldiers(s, 0, 5)
	s.OwnersByRegion[1] = 0
	withSoldiers(s, 1, 4)

	// base = 2 regions + 5 soldiers at the temple = 7... recompute directly:
	got := Income(s, 0)
	base := len(s.RegionsOwnedBy(0)) + s.SoldierCountAt(0) // 2 + 5 = 7
	want := (base * 120) / 100
	if got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestIncome_TwoWaterTemplesStack(t *testing.T) {
	s := newTestState("income-4", 2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 0
	s.TemplesByRegion[0] = Temple{Region: 0, UpgradeIndex: UpgradeWater, Level: 0}
	s.TemplesByRegion[1] = Temple{Region: 1, UpgradeIndex: UpgradeWater, Level: 0}

	// base = 2 regions + 0 soldiers = 2, bonus = 20+20 = 40% => floor(2*1.4)=2.
	// Use a 10-region/0-soldier case instead for a cleaner number:
	// 10 regions, 2 WATER temples at L0 => floor(10*1.4)=14.
	s2 := newTestState("income-5", 10)
	for r := 0; r < 10; r++ {
		s2.OwnersByRegion[r] = 0
	}
	s2.TemplesByRegion[0] = Temple{Region: 0, UpgradeIndex: UpgradeWater, Level: 0}
	s2.TemplesByRegion[1] = Temple{Region: 1, UpgradeIndex: UpgradeWater, Level: 0}

	if got := Income(s2, 0); got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}
	_ = s
}

func TestApplyIncome_CreditsFaith(t *testing.T) {
	s := newTestState("income-6", 1)
	s.OwnersByRegion[0] = 0
	before := s.FaithByPlayer[0]

	ApplyIncome(s, 0)

	if s.FaithByPlayer[0] != before+Income(s, 0) {
		t.Fatalf("faith not credited correctly")
	}
}
