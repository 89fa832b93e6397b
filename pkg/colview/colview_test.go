package colview

import (
	"errors"
	"math"
	"testing"

	"coltab/pkg/coldict"
	"coltab/pkg/colerr"
	"coltab/pkg/column"
	"coltab/pkg/coltype"
)

func TestNumericRowGet(t *testing.T) {
	col := column.NewDenseNumeric(coltype.Real, []float64{1, 2, math.NaN(), 4})
	for i, want := range []float64{1, 2, math.NaN(), 4} {
		row := NumericRow{Index: i}
		got, err := row.Get(col)
		if err != nil {
			t.Fatal(err)
		}
		if math.IsNaN(want) {
			if !math.IsNaN(got) {
				t.Fatalf("row[%d] = %v, want NaN", i, got)
			}
			continue
		}
		if got != want {
			t.Fatalf("row[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestCategoricalRowGet(t *testing.T) {
	dict := coldict.New(coltype.U8)
	ia, _ := dict.Intern("north")
	ib, _ := dict.Intern("south")
	storage := column.NominalDenseStorage{Format: coltype.U8, Size: 3, Packed: []byte{byte(ia), byte(ib), byte(ia)}}
	col := column.NewDenseNominal(dict, storage, false, coltype.NoEntry)

	row := CategoricalRow{Index: 1}
	got, err := row.Get(col)
	if err != nil {
		t.Fatal(err)
	}
	if got != "south" {
		t.Fatalf("row.Get() = %v, want south", got)
	}
}

func TestMixedRowAllAccessors(t *testing.T) {
	dict := coldict.New(coltype.U8)
	ia, _ := dict.Intern("alpha")
	numCol := column.NewDenseNumeric(coltype.Real, []float64{10, 20, 30})
	catCol := column.NewDenseNominal(dict, column.NominalDenseStorage{Format: coltype.U8, Size: 3, Packed: []byte{byte(ia), byte(ia), byte(ia)}}, false, coltype.NoEntry)
	objCol := column.NewDenseObject(coltype.Text, []any{"x", "y", "z"})

	row := MixedRow{Index: 2}
	if v, err := row.GetNumeric(numCol); err != nil || v != 30 {
		t.Fatalf("GetNumeric = %v, %v", v, err)
	}
	if v, err := row.GetIndex(catCol); err != nil || v != ia {
		t.Fatalf("GetIndex = %v, %v, want %d", v, err, ia)
	}
	if v, err := row.GetObject(catCol); err != nil || v != "alpha" {
		t.Fatalf("GetObject(catCol) = %v, %v", v, err)
	}
	if v, err := row.GetObject(objCol); err != nil || v != "z" {
		t.Fatalf("GetObject(objCol) = %v, %v", v, err)
	}
}

func TestObjectAsTypedExtraction(t *testing.T) {
	objCol := column.NewDenseObject(coltype.Custom, []any{42, "not an int"})
	row := MixedRow{Index: 0}
	got, err := ObjectAs[int](row, objCol)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("ObjectAs[int] = %d, want 42", got)
	}

	row.Index = 1
	if _, err := ObjectAs[int](row, objCol); !errors.Is(err, colerr.ErrColumnTypeMismatch) {
		t.Fatalf("err = %v, want ErrColumnTypeMismatch", err)
	}
}

func TestGetIndexRejectsNonCategoricalColumn(t *testing.T) {
	numCol := column.NewDenseNumeric(coltype.Real, []float64{1})
	row := MixedRow{Index: 0}
	if _, err := row.GetIndex(numCol); err == nil {
		t.Fatal("expected an error reading GetIndex on a non-categorical column")
	}
}
