package click

import "testing"

func TestConvertIdentityViewport(t *testing.T) {
	// At the reference viewport the scale is 1, so only the correction
	// factor moves the result.
	x, y := Convert(1425, 540, 1920, 1080)
	if x != 1425 {
		t.Fatalf("x at factor-1.0 breakpoint: got %d, want 1425", x)
	}
	wantYF := 1080 * (540.0 / 1080) * 0.91
	wantY := int(wantYF)
	if y != wantY {
		t.Fatalf("y: got %d, want %d", y, wantY)
	}
}

func TestConvertScalesWithViewport(t *testing.T) {
	x1, _ := Convert(960, 540, 1920, 1080)
	x2, _ := Convert(960, 540, 960, 1080)
	if x2*2 != x1 && x2*2 != x1-1 && x2*2 != x1+1 {
		t.Fatalf("half-width viewport should halve x: got %d vs %d", x2, x1)
	}
}

func TestConvertMonotonicX(t *testing.T) {
	prev := -1
	for _, x := range []int{100, 320, 321, 750, 1200, 1425, 1500, 1700, 1920} {
		cx, _ := Convert(x, 500, 1920, 1080)
		if cx < prev {
			t.Fatalf("x conversion not monotonic at %d: %d < %d", x, cx, prev)
		}
		prev = cx
	}
}

func TestFactorForPastLastBreakpoint(t *testing.T) {
	if got := factorFor(5000, xCorrections); got != xCorrections[len(xCorrections)-1].Factor {
		t.Fatalf("out-of-table position should use last factor, got %v", got)
	}
}

func TestIdentityConvert(t *testing.T) {
	x, y := IdentityConvert(1920, 1080, 960, 540)
	if x != 960 || y != 540 {
		t.Fatalf("got (%d, %d), want (960, 540)", x, y)
	}
}
