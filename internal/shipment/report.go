package shipment

import (
	"time"

	"github.com/eugenenazirov/shipment-planner/internal/model"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/palletize"
)

// Request is one packing job: the items, an optional strategy id and what the
// delivery site can receive.
type Request struct {
	Items    []model.Item               `json:"items" validate:"required,min=1,dive"`
	Strategy string                     `json:"strategy,omitempty"`
	Delivery model.DeliveryCapabilities `json:"delivery"`
}

// Report is the aggregate result of a packing run. Every weight is a
// whole, rounded-up pound value.
type Report struct {
	WorkOrder       WorkOrderSummary          `json:"workOrder"`
	Weights         WeightSummary             `json:"weights"`
	Packing         PackingSummary            `json:"packing"`
	Business        BusinessSummary           `json:"business"`
	Freight         []FreightLine             `json:"freight"`
	Metadata        RunMetadata               `json:"metadata"`
	Boxes           []packing.Box             `json:"boxes"`
	Containers      []palletize.Container     `json:"containers"`
	UnassignedItems []packing.Unassigned      `json:"unassignedItems"`
	UnassignedBoxes []palletize.UnassignedBox `json:"unassignedBoxes"`
	Assignments     map[string]string         `json:"assignments"`
}

// OversizedGroup buckets oversized pieces by their rounded footprint.
type OversizedGroup struct {
	Dimensions string `json:"dimensions"`
	Long       int    `json:"long"`
	Short      int    `json:"short"`
	Pieces     int    `json:"pieces"`
	Weight     int    `json:"weight"`
}

// WorkOrderSummary counts pieces for the shop floor.
type WorkOrderSummary struct {
	TotalPieces     int              `json:"totalPieces"`
	StandardPieces  int              `json:"standardPieces"`
	OversizedPieces int              `json:"oversizedPieces"`
	OversizedGroups []OversizedGroup `json:"oversizedGroups"`
}

// WeightSummary breaks the shipment weight down.
type WeightSummary struct {
	ArtworkWeight   int `json:"artworkWeight"`
	GlassWeight     int `json:"glassWeight"`
	OversizedWeight int `json:"oversizedWeight"`
	PackagingWeight int `json:"packagingWeight"`
	FinalWeight     int `json:"finalWeight"`
}

// TypeCount is the number of boxes or containers of one type.
type TypeCount struct {
	Type       string `json:"type"`
	Count      int    `json:"count"`
	Dimensions string `json:"dimensions"`
}

// PackingSummary counts what was built.
type PackingSummary struct {
	BoxCount        int            `json:"boxCount"`
	TelescopedBoxes int            `json:"telescopedBoxes"`
	Boxes           []TypeCount    `json:"boxes"`
	ContainerCount  int            `json:"containerCount"`
	Containers      []TypeCount    `json:"containers"`
	Hardware        map[string]int `json:"hardware"`
}

// BusinessSummary carries the documentation and risk view of the order.
type BusinessSummary struct {
	FlaggedCategories     []model.ProductCategory `json:"flaggedCategories"`
	SpecialHandlingPieces int                     `json:"specialHandlingPieces"`
	RiskFlags             []string                `json:"riskFlags"`
	DeliveryNotes         []string                `json:"deliveryNotes"`
}

// FreightLine is the footprint and weight of one outer container as quoted to
// a carrier.
type FreightLine struct {
	ContainerID string              `json:"containerId"`
	Type        model.ContainerType `json:"type"`
	Dimensions  string              `json:"dimensions"`
	Weight      int                 `json:"weight"`
	Boxes       int                 `json:"boxes"`
	Line        string              `json:"line"`
}

// RunMetadata describes the run itself.
type RunMetadata struct {
	RunID               string    `json:"runId"`
	Strategy            string    `json:"strategy"`
	StartedAt           time.Time `json:"startedAt"`
	FinishedAt          time.Time `json:"finishedAt"`
	DurationMs          int64     `json:"durationMs"`
	TelescopingWarnings []string  `json:"telescopingWarnings"`
	UnassignedItems     int       `json:"unassignedItems"`
	UnassignedPieces    int       `json:"unassignedPieces"`
	UnassignedBoxes     int       `json:"unassignedBoxes"`
	Warnings            []string  `json:"warnings"`
	Errors              []string  `json:"errors"`
}
