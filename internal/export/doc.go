// Package export renders packing reports into files carriers and the shop
// floor consume.
package export
