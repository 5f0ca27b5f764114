package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/termdesk/internal/geom"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the monitor geometry.
func (m Monitor) Rect() geom.Rect {
	return geom.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// PrimaryGeometry returns the first active monitor, or the root window when
// RandR reports nothing.
func (c *Connection) PrimaryGeometry() (geom.Rect, error) {
	if monitors, err := c.GetMonitors(); err == nil && len(monitors) > 0 {
		return monitors[0].Rect(), nil
	}
	w, h, err := c.RootSize()
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.Rect{Width: w, Height: h}, nil
}
