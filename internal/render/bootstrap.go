package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	bootOnce sync.Once
	bootFont *truetype.Font
	bootErr  error
)

// Bootstrap loads the chart font. The work runs once per process and every
// later call returns the first result; there is no teardown.
func Bootstrap() (*truetype.Font, error) {
	bootOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			bootErr = fmt.Errorf("parse chart font: %w", err)
			return
		}
		bootFont = f
	})
	return bootFont, bootErr
}
