package domain

import (
	"testing"

	"github.com/google/uuid"
)

func frameItem(price, discount int64, qty int32) CartItem {
	return CartItem{
		ID:            uuid.New(),
		ProductID:     "frame-001",
		ProductName:   "Test Frame",
		Quantity:      qty,
		FramePrice:    price,
		FrameDiscount: discount,
	}
}

func lensItem(framePrice, lensBase int64, coatings ...LensAddon) CartItem {
	item := frameItem(framePrice, 0, 1)
	item.LensDetail = &LensSelection{
		LensVariantID: "lens-std-156",
		BasePrice:     lensBase,
		Coatings:      coatings,
		Prescription: Prescription{
			Left:  EyeValues{Sphere: -2.5},
			Right: EyeValues{Sphere: -2.0},
		},
	}
	return item
}

func TestCartItem_TotalPrice(t *testing.T) {
	tests := []struct {
		name     string
		item     CartItem
		expected int64
	}{
		{
			name:     "plain frame",
			item:     frameItem(500000, 0, 1),
			expected: 500000,
		},
		{
			name:     "discounted frame",
			item:     frameItem(500000, 100000, 1),
			expected: 400000,
		},
		{
			name:     "discount clamped at frame price",
			item:     frameItem(200000, 350000, 1),
			expected: 0,
		},
		{
			name:     "quantity multiplies frame only once per unit",
			item:     frameItem(500000, 100000, 3),
			expected: 1200000,
		},
		{
			name:     "frame with lens",
			item:     lensItem(500000, 300000),
			expected: 800000,
		},
		{
			name: "frame with lens and coatings",
			item: lensItem(500000, 250000,
				LensAddon{ID: "coat-ar", Name: "Anti-reflective", Price: 50000},
				LensAddon{ID: "coat-blue", Name: "Blue light filter", Price: 80000},
			),
			expected: 880000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.TotalPrice(); got != tt.expected {
				t.Errorf("TotalPrice() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestLensSelection_TotalLensPrice(t *testing.T) {
	sel := LensSelection{
		BasePrice: 300000,
		Coatings: []LensAddon{
			{ID: "coat-ar", Price: 50000},
		},
		Tint: &LensAddon{ID: "tint-grey", Price: 120000},
	}
	if got := sel.TotalLensPrice(); got != 470000 {
		t.Errorf("TotalLensPrice() = %d, expected 470000", got)
	}
}

func TestComputeSummary(t *testing.T) {
	cart := Cart{ID: uuid.New(), SessionToken: "tok"}

	t.Run("mixed cart totals", func(t *testing.T) {
		items := []CartItem{
			frameItem(500000, 0, 1),
			lensItem(200000, 300000),
		}
		s := ComputeSummary(cart, items)

		if s.TotalFramePrice != 700000 {
			t.Errorf("TotalFramePrice = %d, expected 700000", s.TotalFramePrice)
		}
		if s.TotalLensPrice != 300000 {
			t.Errorf("TotalLensPrice = %d, expected 300000", s.TotalLensPrice)
		}
		if s.GrandTotal != 1000000 {
			t.Errorf("GrandTotal = %d, expected 1000000", s.GrandTotal)
		}
		if !s.HasLensItems {
			t.Error("expected HasLensItems to be true")
		}
	})

	t.Run("grand total equals sum of item totals", func(t *testing.T) {
		items := []CartItem{
			frameItem(500000, 150000, 2),
			lensItem(350000, 280000, LensAddon{ID: "coat-ar", Price: 50000}),
			frameItem(90000, 120000, 1),
		}
		s := ComputeSummary(cart, items)

		var want int64
		for _, it := range items {
			want += it.TotalPrice()
		}
		if s.GrandTotal != want {
			t.Errorf("GrandTotal = %d, expected %d", s.GrandTotal, want)
		}
	})

	t.Run("frame-only cart has no lens items", func(t *testing.T) {
		s := ComputeSummary(cart, []CartItem{frameItem(500000, 0, 1)})
		if s.HasLensItems {
			t.Error("expected HasLensItems to be false")
		}
		if s.TotalLensPrice != 0 {
			t.Errorf("TotalLensPrice = %d, expected 0", s.TotalLensPrice)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		s := ComputeSummary(cart, nil)
		if s.GrandTotal != 0 || s.ItemCount() != 0 {
			t.Errorf("expected empty summary, got total %d count %d", s.GrandTotal, s.ItemCount())
		}
	})

	t.Run("discount never drives a line negative", func(t *testing.T) {
		s := ComputeSummary(cart, []CartItem{frameItem(100000, 500000, 2)})
		if s.GrandTotal != 0 {
			t.Errorf("GrandTotal = %d, expected 0", s.GrandTotal)
		}
		if s.TotalDiscount != 200000 {
			t.Errorf("TotalDiscount = %d, expected clamp to 200000", s.TotalDiscount)
		}
	})
}

func TestCartItem_Validate(t *testing.T) {
	t.Run("valid item passes", func(t *testing.T) {
		item := lensItem(500000, 300000)
		if err := item.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("negative frame price rejected", func(t *testing.T) {
		item := frameItem(-1, 0, 1)
		if err := item.Validate(); ErrorCode(err) != EINVALID {
			t.Errorf("expected EINVALID, got %v", err)
		}
	})

	t.Run("negative addon price rejected", func(t *testing.T) {
		item := lensItem(500000, 300000, LensAddon{ID: "coat-bad", Price: -50000})
		if err := item.Validate(); ErrorCode(err) != EINVALID {
			t.Errorf("expected EINVALID, got %v", err)
		}
	})

	t.Run("lens without prescription rejected", func(t *testing.T) {
		item := lensItem(500000, 300000)
		item.LensDetail.Prescription = Prescription{}
		if err := item.Validate(); err != ErrMissingRx {
			t.Errorf("expected ErrMissingRx, got %v", err)
		}
	})

	t.Run("plano lens with pupil distance passes", func(t *testing.T) {
		item := lensItem(500000, 300000)
		pd := 62.0
		item.LensDetail.Prescription = Prescription{
			Left:  EyeValues{PupilDistance: &pd},
			Right: EyeValues{PupilDistance: &pd},
		}
		if err := item.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestCheckoutSession_PayableTotal(t *testing.T) {
	tests := []struct {
		name       string
		session    CheckoutSession
		grandTotal int64
		expected   int64
	}{
		{
			name:       "shipping added",
			session:    CheckoutSession{ShippingCost: 30000},
			grandTotal: 1000000,
			expected:   1030000,
		},
		{
			name:       "discount subtracted",
			session:    CheckoutSession{ShippingCost: 30000, Discount: 100000},
			grandTotal: 1000000,
			expected:   930000,
		},
		{
			name:       "clamped at zero",
			session:    CheckoutSession{Discount: 2000000},
			grandTotal: 500000,
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.PayableTotal(tt.grandTotal); got != tt.expected {
				t.Errorf("PayableTotal() = %d, expected %d", got, tt.expected)
			}
		})
	}
}
