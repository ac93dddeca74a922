// Package model defines the value types shared by the packing engine: artwork
// items, their footprints, box and container type tags, and the delivery
// capabilities of the receiving site.
package model
