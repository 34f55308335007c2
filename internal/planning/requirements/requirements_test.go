package requirements

import (
	"testing"

	"github.com/shopspring/decimal"
)

func weightMaterial(id, name string, orderUnitWeight float64) MaterialRef {
	return MaterialRef{
		ID:              id,
		Name:            name,
		Mode:            ModeWeight,
		OrderUnitWeight: decimal.NewFromFloat(orderUnitWeight),
		OrderUnitName:   "パック",
		DisplayOrder:    DefaultDisplayOrder,
	}
}

func countMaterial(id, name string, piecesPerOrderUnit int) MaterialRef {
	return MaterialRef{
		ID:                 id,
		Name:               name,
		Mode:               ModeCount,
		PiecesPerOrderUnit: piecesPerOrderUnit,
		OrderUnitName:      "束",
		DisplayOrder:       DefaultDisplayOrder,
	}
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// 玉子握り：每份消耗鸡蛋 quantity=2, unitWeight=15g，生产50份
func TestExpandProductTamago(t *testing.T) {
	egg := weightMaterial("mat-egg", "egg", 200)
	lines := []Line{{Material: egg, Quantity: dec(2), UnitWeight: dec(15)}}

	contribs, err := ExpandProduct(lines, 50, "週末仕込み")
	if err != nil {
		t.Fatalf("ExpandProduct failed: %v", err)
	}
	if len(contribs) != 1 {
		t.Fatalf("expected 1 contribution, got %d", len(contribs))
	}

	c := contribs[0]
	if !c.TotalQuantity.Equal(dec(100)) {
		t.Errorf("expected total quantity 100, got %s", c.TotalQuantity)
	}
	if !c.TotalWeight.Equal(dec(1500)) {
		t.Errorf("expected total weight 1500, got %s", c.TotalWeight)
	}
	if !c.WeightPerUnit.Equal(dec(15)) {
		t.Errorf("expected weight per unit 15, got %s", c.WeightPerUnit)
	}
	if c.PlanName != "週末仕込み" {
		t.Errorf("expected plan name carried through, got %q", c.PlanName)
	}
}

func TestExpandProductRejectsNonPositiveCount(t *testing.T) {
	lines := []Line{{Material: weightMaterial("m1", "egg", 200), Quantity: dec(1), UnitWeight: dec(10)}}

	for _, n := range []int{0, -3} {
		if _, err := ExpandProduct(lines, n, "p"); err == nil {
			t.Errorf("expected error for production count %d", n)
		}
	}
}

// 称重换算：ceil(1500/200) = 8
func TestAggregateWeightCeil(t *testing.T) {
	egg := weightMaterial("mat-egg", "egg", 200)
	contribs, _ := ExpandProduct([]Line{{Material: egg, Quantity: dec(2), UnitWeight: dec(15)}}, 50, "plan-a")

	reqs := Aggregate(contribs, DefaultOptions())
	if len(reqs) != 1 {
		t.Fatalf("expected 1 requirement, got %d", len(reqs))
	}
	r := reqs[0]
	if r.ConversionType != ConversionWeight {
		t.Errorf("expected weight conversion, got %s", r.ConversionType)
	}
	if !r.RequiredOrderQuantity.Equal(dec(8)) {
		t.Errorf("expected required order quantity 8, got %s", r.RequiredOrderQuantity)
	}
	if r.IsGrouped {
		t.Error("ungrouped material must not be marked grouped")
	}
}

// 计数换算：两个商品合计250枚海苔，ceil(250/100) = 3
func TestAggregateCountAcrossProducts(t *testing.T) {
	nori := countMaterial("mat-nori", "nori", 100)
	c1, _ := ExpandProduct([]Line{{Material: nori, Quantity: dec(1), UnitWeight: dec(3)}}, 150, "plan-a")
	c2, _ := ExpandProduct([]Line{{Material: nori, Quantity: dec(2), UnitWeight: dec(3)}}, 50, "plan-b")

	reqs := Aggregate(append(c1, c2...), DefaultOptions())
	if len(reqs) != 1 {
		t.Fatalf("expected merged single requirement, got %d", len(reqs))
	}
	r := reqs[0]
	if !r.TotalQuantity.Equal(dec(250)) {
		t.Errorf("expected total quantity 250, got %s", r.TotalQuantity)
	}
	if !r.RequiredOrderQuantity.Equal(dec(3)) {
		t.Errorf("expected 3 order units, got %s", r.RequiredOrderQuantity)
	}
	if len(r.PlanNames) != 2 || r.PlanNames[0] != "plan-a" || r.PlanNames[1] != "plan-b" {
		t.Errorf("expected plan names [plan-a plan-b], got %v", r.PlanNames)
	}
}

// 合并键策略：同名不同ID的食材，按名合并成一条，按ID保持两条
func TestMergeKeyPolicies(t *testing.T) {
	a := weightMaterial("mat-1", "まぐろ", 1000)
	b := weightMaterial("mat-2", "まぐろ", 1000)
	contribs := []Contribution{
		{Material: a, TotalQuantity: dec(10), TotalWeight: dec(500), WeightPerUnit: dec(50)},
		{Material: b, TotalQuantity: dec(10), TotalWeight: dec(700), WeightPerUnit: dec(70)},
	}

	byName := Aggregate(contribs, Options{MergeKey: MergeByName, Rounding: RoundCeil})
	if len(byName) != 1 {
		t.Fatalf("merge by name: expected 1, got %d", len(byName))
	}
	if !byName[0].TotalWeight.Equal(dec(1200)) {
		t.Errorf("merge by name: expected total weight 1200, got %s", byName[0].TotalWeight)
	}

	byID := Aggregate(contribs, Options{MergeKey: MergeByID, Rounding: RoundCeil})
	if len(byID) != 2 {
		t.Fatalf("merge by id: expected 2, got %d", len(byID))
	}
}

// 按ID合并时，未分组的同名食材各自取整，不得合池。
// まぐろ 300g と まぐろ 900g（異なるID、1000g/箱）→ 各 1 箱、合池なら 2 になってしまう
func TestMergeByIDUngroupedSameNameRoundsSeparately(t *testing.T) {
	a := weightMaterial("mat-1", "まぐろ", 1000)
	b := weightMaterial("mat-2", "まぐろ", 1000)
	contribs := []Contribution{
		{Material: a, TotalQuantity: dec(10), TotalWeight: dec(300), WeightPerUnit: dec(30)},
		{Material: b, TotalQuantity: dec(30), TotalWeight: dec(900), WeightPerUnit: dec(30)},
	}

	reqs := Aggregate(contribs, Options{MergeKey: MergeByID, Rounding: RoundCeil})
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	for _, r := range reqs {
		if r.IsGrouped {
			t.Errorf("material %s (%s) must not be marked grouped", r.MaterialName, r.MaterialID)
		}
		if !r.RequiredOrderQuantity.Equal(dec(1)) {
			t.Errorf("material %s (%s): expected own-group order quantity 1, got %s",
				r.MaterialName, r.MaterialID, r.RequiredOrderQuantity)
		}
	}
}

// 订购组：同组食材合并重量后只取整一次。
// 白身 300g + 赤身 900g，每箱 1000g → 组合计 ceil(1200/1000)=2。
// 若按食材各自取整会得到 1+1=2 箱之外的组合（如 300/1000→1, 900/1000→1），
// 此例故意选在边界上验证组级口径：両成员都记录组派生的 2
func TestOrderGroupPooledRounding(t *testing.T) {
	shiromi := weightMaterial("mat-shiromi", "白身", 1000)
	shiromi.OrderGroupID = "grp-fish"
	shiromi.OrderGroupName = "鮮魚一式"
	shiromi.DisplayOrder = 1
	akami := weightMaterial("mat-akami", "赤身", 1000)
	akami.OrderGroupID = "grp-fish"
	akami.OrderGroupName = "鮮魚一式"
	akami.DisplayOrder = 2

	contribs := []Contribution{
		{Material: shiromi, TotalQuantity: dec(10), TotalWeight: dec(300), WeightPerUnit: dec(30)},
		{Material: akami, TotalQuantity: dec(30), TotalWeight: dec(900), WeightPerUnit: dec(30)},
	}

	reqs := Aggregate(contribs, DefaultOptions())
	if len(reqs) != 2 {
		t.Fatalf("expected both group members reported, got %d", len(reqs))
	}
	for _, r := range reqs {
		if !r.IsGrouped {
			t.Errorf("material %s should be marked grouped", r.MaterialName)
		}
		if !r.RequiredOrderQuantity.Equal(dec(2)) {
			t.Errorf("material %s: expected group-derived order quantity 2, got %s",
				r.MaterialName, r.RequiredOrderQuantity)
		}
	}

	// 组合计等于成员合计（分组前后总量不变）
	sum := reqs[0].TotalWeight.Add(reqs[1].TotalWeight)
	if !sum.Equal(dec(1200)) {
		t.Errorf("expected pooled weight 1200, got %s", sum)
	}
}

// 未配置换算的食材：订购数0、类型none，正常返回不报错
func TestAggregateUnconfiguredMaterial(t *testing.T) {
	m := MaterialRef{ID: "mat-x", Name: "試作調味料", Mode: ModeWeight, DisplayOrder: DefaultDisplayOrder}
	contribs := []Contribution{{Material: m, TotalQuantity: dec(5), TotalWeight: dec(100), WeightPerUnit: dec(20)}}

	reqs := Aggregate(contribs, DefaultOptions())
	if len(reqs) != 1 {
		t.Fatalf("expected 1 requirement, got %d", len(reqs))
	}
	if reqs[0].ConversionType != ConversionNone {
		t.Errorf("expected conversion none, got %s", reqs[0].ConversionType)
	}
	if !reqs[0].RequiredOrderQuantity.IsZero() {
		t.Errorf("expected zero order quantity, got %s", reqs[0].RequiredOrderQuantity)
	}
}

// 两位小数口径（商品页預覧の歴史的口径）：1500/200 = 7.5 → 7.5
func TestTwoDecimalRounding(t *testing.T) {
	egg := weightMaterial("mat-egg", "egg", 200)
	contribs := []Contribution{{Material: egg, TotalQuantity: dec(100), TotalWeight: dec(1500), WeightPerUnit: dec(15)}}

	reqs := Aggregate(contribs, Options{MergeKey: MergeByName, Rounding: RoundTwoDecimal})
	if !reqs[0].RequiredOrderQuantity.Equal(dec(7.5)) {
		t.Errorf("expected 7.5, got %s", reqs[0].RequiredOrderQuantity)
	}

	// 向上取整永远不小于未取整值
	ceilReqs := Aggregate(contribs, Options{MergeKey: MergeByName, Rounding: RoundCeil})
	if ceilReqs[0].RequiredOrderQuantity.LessThan(dec(7.5)) {
		t.Errorf("ceiling must never under-order: got %s", ceilReqs[0].RequiredOrderQuantity)
	}
}

// 排序：display_order 升序、同序按名称，未設定(9999)は最後
func TestAggregateSorting(t *testing.T) {
	m1 := weightMaterial("m1", "わさび", 100)
	m1.DisplayOrder = 5
	m2 := weightMaterial("m2", "あじ", 100)
	m2.DisplayOrder = 5
	m3 := weightMaterial("m3", "未設定の材料", 100) // DisplayOrder = sentinel

	contribs := []Contribution{
		{Material: m3, TotalQuantity: dec(1), TotalWeight: dec(10), WeightPerUnit: dec(10)},
		{Material: m1, TotalQuantity: dec(1), TotalWeight: dec(10), WeightPerUnit: dec(10)},
		{Material: m2, TotalQuantity: dec(1), TotalWeight: dec(10), WeightPerUnit: dec(10)},
	}

	reqs := Aggregate(contribs, DefaultOptions())
	got := []string{reqs[0].MaterialName, reqs[1].MaterialName, reqs[2].MaterialName}
	want := []string{"あじ", "わさび", "未設定の材料"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sort order mismatch: got %v, want %v", got, want)
		}
	}
}

// 幂等性：同一入力から2回計算して同一結果
func TestAggregateIdempotent(t *testing.T) {
	egg := weightMaterial("mat-egg", "egg", 200)
	nori := countMaterial("mat-nori", "nori", 100)
	contribs := []Contribution{
		{Material: egg, TotalQuantity: dec(100), TotalWeight: dec(1500), WeightPerUnit: dec(15)},
		{Material: nori, TotalQuantity: dec(250), TotalWeight: dec(750), WeightPerUnit: dec(3)},
	}

	first := Aggregate(contribs, DefaultOptions())
	second := Aggregate(contribs, DefaultOptions())
	if len(first) != len(second) {
		t.Fatalf("result lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].MaterialName != second[i].MaterialName ||
			!first[i].TotalWeight.Equal(second[i].TotalWeight) ||
			!first[i].RequiredOrderQuantity.Equal(second[i].RequiredOrderQuantity) {
			t.Fatalf("results differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// 線形性：totalWeight(P,n) == n * Σ(quantity * unitWeight)
func TestExpandLinearity(t *testing.T) {
	egg := weightMaterial("mat-egg", "egg", 200)
	rice := weightMaterial("mat-rice", "しゃり", 5000)
	lines := []Line{
		{Material: egg, Quantity: dec(2), UnitWeight: dec(15)},
		{Material: rice, Quantity: dec(1), UnitWeight: dec(20)},
	}

	perUnit := dec(2).Mul(dec(15)).Add(dec(1).Mul(dec(20))) // 50g/份

	for _, n := range []int{1, 7, 120} {
		contribs, err := ExpandProduct(lines, n, "p")
		if err != nil {
			t.Fatalf("ExpandProduct(%d): %v", n, err)
		}
		total := decimal.Zero
		for _, c := range contribs {
			total = total.Add(c.TotalWeight)
		}
		want := perUnit.Mul(decimal.NewFromInt(int64(n)))
		if !total.Equal(want) {
			t.Errorf("n=%d: expected %s, got %s", n, want, total)
		}
	}
}
