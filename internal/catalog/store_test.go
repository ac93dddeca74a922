package catalog

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/eugenenazirov/shipment-planner/internal/model"
)

func TestNewMemoryStoreReturnsInitialCatalog(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(Default())

	limit, ok := store.Get().Capacity(model.CategoryPaperPrint, model.BoxStandard)
	if !ok || limit != 6 {
		t.Fatalf("expected default paper print capacity 6, got %d (found=%v)", limit, ok)
	}
}

func TestSetUpdatesState(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(Default())
	doc := Document{
		Capacities: map[model.ProductCategory]map[model.BoxType]int{
			model.CategoryMirror: {model.BoxStandard: 2},
		},
	}
	if _, err := store.Set(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := store.Get().Capacity(model.CategoryMirror, model.BoxStandard)
	if got != 2 {
		t.Fatalf("expected mirror capacity 2, got %d", got)
	}
	// untouched entries keep their defaults
	if large, _ := store.Get().Capacity(model.CategoryMirror, model.BoxLarge); large != 3 {
		t.Fatalf("expected mirror large capacity 3, got %d", large)
	}
}

func TestSetRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	negative := Thresholds{StandardBox: -1, LargeBox: 43.5, TelescopingMax: 84, MaxStackHeight: 84, DefaultDepth: 2, OversizeCapacity: 3}
	testCases := []Document{
		{Capacities: map[model.ProductCategory]map[model.BoxType]int{model.CategoryMirror: {model.BoxStandard: 0}}},
		{Capacities: map[model.ProductCategory]map[model.BoxType]int{"sculpture": {model.BoxStandard: 2}}},
		{MaterialFactors: map[model.Material]string{model.MaterialGlass: "heavy"}},
		{MaterialFactors: map[model.Material]string{model.MaterialGlass: "-0.1"}},
		{Containers: []ContainerSpec{{Type: model.ContainerStandardPallet, MaxBoxes: 0, Tare: 60}}},
		{Boxes: []BoxSpec{{Length: 10}}},
		{Thresholds: &negative},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			store := NewMemoryStore(Default())
			if _, err := store.Set(tc); !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog for %+v, got %v", tc, err)
			}
			if limit, _ := store.Get().Capacity(model.CategoryMirror, model.BoxStandard); limit != 4 {
				t.Fatalf("expected catalog to be unchanged after rejected update")
			}
		})
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(Default())
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			doc := Document{Capacities: map[model.ProductCategory]map[model.BoxType]int{
				model.CategoryPatientBoard: {model.BoxStandard: 1 + offset},
			}}
			if _, err := store.Set(doc); err != nil {
				t.Errorf("Set failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if err := store.Get().Validate(); err != nil {
				t.Errorf("Get returned invalid catalog: %v", err)
			}
		}()
	}

	wg.Wait()
}

func TestSetLayersOverInitialCatalog(t *testing.T) {
	t.Parallel()

	initial, err := Apply(Default(), Document{MaterialFactors: map[model.Material]string{"bronze": "0.05"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := NewMemoryStore(initial)

	first := Document{Capacities: map[model.ProductCategory]map[model.BoxType]int{model.CategoryMirror: {model.BoxStandard: 2}}}
	if _, err := store.Set(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := Document{Capacities: map[model.ProductCategory]map[model.BoxType]int{model.CategoryWallDecor: {model.BoxStandard: 3}}}
	if _, err := store.Set(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := store.Get().Factor("bronze"); !ok {
		t.Fatalf("expected initial catalog entries to survive updates")
	}
	if got, _ := store.Get().Capacity(model.CategoryMirror, model.BoxStandard); got != 4 {
		t.Fatalf("expected earlier update to be replaced, got mirror capacity %d", got)
	}
	if got, _ := store.Get().Capacity(model.CategoryWallDecor, model.BoxStandard); got != 3 {
		t.Fatalf("expected wall decor capacity 3, got %d", got)
	}
}
