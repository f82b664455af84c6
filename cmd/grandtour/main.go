// Command grandtour is an interactive linear-projection viewer for
// high-dimensional tabular data: drag axis handles to rotate the basis,
// alt-click to flip an axis, shift-drag a lasso to select points.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"grandtour/bridge"
	"grandtour/client"
	"grandtour/dataset"
	"grandtour/engine"
	"grandtour/internal/buildinfo"
	"grandtour/surface"
	"grandtour/termview"
	"grandtour/tour"
)

func main() {
	dataPath := flag.String("data", "", "CSV file with axis columns and a category column")
	axesList := flag.String("axes", "", "Comma-separated axis column names")
	category := flag.String("category", "name", "Category column name")
	colorCol := flag.String("color-column", "color", "Optional column with #rrggbb colors per row")
	dims := flag.Int("dims", 2, "Display dimensionality: 2 or 3")
	projection := flag.String("projection", "orthographic", "Projection mode: orthographic or perspective")
	viewAngle := flag.Float64("view-angle", 60, "Perspective field of view, degrees in (0,180)")
	distance := flag.Float64("distance", 3, "Perspective camera distance")
	pointSize := flag.Float64("point-size", 3, "Baseline point size, pixels")
	axisLength := flag.Float64("axis-length", 1, "Visual axis handle scale")
	size := flag.Int("size", 640, "Canvas size, pixels")
	tui := flag.Bool("tui", false, "Render in the terminal instead of a window")
	withTour := flag.Bool("tour", false, "Enable the automated tour (toggle with t)")
	flag.Parse()

	if *dataPath == "" || *axesList == "" {
		fmt.Fprintf(os.Stderr, "Usage: grandtour -data points.csv -axes E1,E2,E3 [-category name]\n")
		flag.Usage()
		os.Exit(1)
	}

	axisNames := splitList(*axesList)

	table, err := loadCSV(*dataPath, dataset.Schema{
		AxisColumns:    axisNames,
		CategoryColumn: *category,
	}, *colorCol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *dataPath, err)
		os.Exit(1)
	}
	table = table.Normalize()

	sess, err := engine.NewSession(table, *dims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	mode, err := engine.ParseMode(*projection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cam := engine.DefaultCamera()
	cam.Mode = mode
	cam.ViewAngle = *viewAngle
	cam.Distance = *distance
	cam.PointSize = *pointSize
	cam.AxisLen = *axisLength
	if err := sess.SetCamera(cam); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Wire the sync channel: the engine publishes to the host endpoint, the
	// host writes back through the engine endpoint.
	bus := bridge.NewBus()
	engCap := bus.NewEndpoint(bridge.RightSend | bridge.RightRecv)
	hostCap := bus.NewEndpoint(bridge.RightSend | bridge.RightRecv)
	pub := bridge.NewPublisher(bus, engCap.Restrict(bridge.RightSend), hostCap)
	inbox := bridge.NewInbox(bus, engCap.Restrict(bridge.RightRecv))

	var drv tour.Driver
	if *withTour {
		drv = tour.NewSpinner(len(axisNames))
	}

	if *tui {
		if err := termview.Run(termview.Config{Tour: drv}, sess, pub, inbox); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	// A minimal host: print selections and warnings as they arrive.
	cl := client.New(bus, hostCap, engCap)
	stop := make(chan struct{})
	go hostLoop(cl, stop)

	cfg := surface.Config{
		Width:  *size,
		Height: *size,
		Title:  "grandtour (" + buildinfo.Short() + ")",
		Tour:   drv,
	}
	err = surface.Run(cfg, sess, pub, inbox)
	close(stop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func hostLoop(cl *client.Client, stop <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var lastSel string
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, w := range cl.Poll() {
				fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Code, w.Detail)
			}
			sel := cl.SelectedPoints()
			key := fmt.Sprint(sel)
			if key != lastSel {
				lastSel = key
				fmt.Printf("selected %d points: %v\n", len(sel), sel)
			}
		}
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
