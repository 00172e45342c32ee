package view

// Offscreen is the coordinate given to records a projector cannot place.
const Offscreen = -999

// Projector places a longitude/latitude pair on the map panel.
type Projector interface {
	Project(lon, lat float64) (x, y float64, ok bool)
}

// Equirectangular maps longitude and latitude linearly onto a
// Width x Height panel.
type Equirectangular struct {
	Width, Height float64
}

// Project implements Projector.
func (e Equirectangular) Project(lon, lat float64) (float64, float64, bool) {
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	return (lon + 180) / 360 * e.Width, (90 - lat) / 180 * e.Height, true
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(lon, lat float64) (float64, float64, bool)

// Project implements Projector.
func (f ProjectorFunc) Project(lon, lat float64) (float64, float64, bool) { return f(lon, lat) }
