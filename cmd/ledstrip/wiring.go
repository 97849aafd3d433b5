package main

import (
	"fmt"

	"github.com/jwulff/ledstrip-go/internal/layout"
)

func wiringCommand(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	l := cfg.Matrix

	fmt.Printf("Layout: %s (%d pixels)\n", l, l.Size())
	fmt.Println()
	fmt.Println("Wire index at each position:")
	printGrid(l, l.CoordinatesToIndex)
	fmt.Println()
	fmt.Println("Canonical index at each position:")
	printGrid(l, func(row, col int) int { return row*l.Columns + col })
	return nil
}

func printGrid(l layout.Layout, index func(row, col int) int) {
	width := len(fmt.Sprint(l.Size()-1)) + 1
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Columns; col++ {
			fmt.Printf("%*d", width, index(row, col))
		}
		fmt.Println()
	}
}
