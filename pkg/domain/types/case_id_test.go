package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vesperants/najir-agent/pkg/domain/types"
)

func TestCaseIDIsStructured(t *testing.T) {
	t.Run("structured form", func(t *testing.T) {
		gt.Bool(t, types.CaseID("076-WO-0945").IsStructured()).True()
	})

	t.Run("bare numerals", func(t *testing.T) {
		gt.Bool(t, types.CaseID("0945").IsStructured()).False()
	})

	t.Run("lowercase letters rejected", func(t *testing.T) {
		gt.Bool(t, types.CaseID("076-wo-0945").IsStructured()).False()
	})
}

func TestCaseIDToDevanagari(t *testing.T) {
	t.Run("arabic digits convert", func(t *testing.T) {
		gt.Value(t, types.CaseID("0945").ToDevanagari()).Equal(types.CaseID("०९४५"))
	})

	t.Run("conversion is idempotent", func(t *testing.T) {
		once := types.CaseID("123").ToDevanagari()
		gt.Value(t, once.ToDevanagari()).Equal(once)
	})

	t.Run("non-digit runes pass through", func(t *testing.T) {
		gt.Value(t, types.CaseID("076-WO-0945").ToDevanagari()).Equal(types.CaseID("०७६-WO-०९४५"))
	})
}

func TestCaseIDsFromStrings(t *testing.T) {
	ids := types.CaseIDsFromStrings([]string{" 1234 ", "", "076-WO-0945"})
	gt.Array(t, ids).Length(2)
	gt.Value(t, ids[0]).Equal(types.CaseID("1234"))
	gt.Value(t, ids[1]).Equal(types.CaseID("076-WO-0945"))
}
