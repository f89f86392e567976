package selector

import (
	"strings"
	"testing"
)

func TestDefaultRegistryResolvesAllNames(t *testing.T) {
	r := Default()
	for _, name := range []string{
		FirstProductItem, ProductGroupMenu, SelectAllCheckbox, BulkAssignButton,
		TabBasic, TabOption, TabPrice, TabThumbnail, TabDetail, TabUpload,
		MemoModalOpen, MemoModalCheckbox, MemoModalTextarea, MemoModalSave,
		HTMLSourceOpen, HTMLSourceTextarea, HTMLSourceSave,
		NameEditTextarea, PriceDiscount, CopyButton, OptionAIButton,
		OptionNumberBtn, DeleteButton, DetailBulkEditOpen,
	} {
		if _, ok := r.Get(name); !ok {
			t.Fatalf("registry missing %q", name)
		}
	}
}

func TestLocateJSHonorsLocatorKind(t *testing.T) {
	css := Element{Name: "c", Locator: ".ant-modal input", Kind: KindCSS}
	if got := LocateJS(css); !strings.HasPrefix(got, "document.querySelector(") {
		t.Fatalf("css locator compiled to %q", got)
	}
	xpath := Element{Name: "x", Locator: "//textarea[@id='memo']", Kind: KindXPath}
	got := LocateJS(xpath)
	if !strings.HasPrefix(got, "document.evaluate(") {
		t.Fatalf("xpath locator compiled to %q", got)
	}
	if !strings.Contains(got, `"//textarea[@id='memo']"`) {
		t.Fatalf("xpath locator text missing from %q", got)
	}
}

func TestValidateRejectsUnbackedFallback(t *testing.T) {
	el := Element{
		Name:     "broken",
		Fallback: []Method{MethodDOM},
	}
	if err := el.Validate(); err == nil {
		t.Fatal("dom fallback without a locator must not validate")
	}

	el = Element{
		Name:     "broken_coords",
		Locator:  "//div",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM, MethodCoordinates},
	}
	if err := el.Validate(); err == nil {
		t.Fatal("coordinate fallback without coordinates must not validate")
	}
}

func TestValidateAcceptsBackedElement(t *testing.T) {
	el := Element{
		Name:     "ok",
		Locator:  "//button",
		Kind:     KindXPath,
		Coords:   Point{X: 100, Y: 200},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	}
	if err := el.Validate(); err != nil {
		t.Fatalf("valid element rejected: %v", err)
	}
}

func TestMustGetPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustGet on an unknown name should panic")
		}
	}()
	Default().MustGet("no_such_element")
}
