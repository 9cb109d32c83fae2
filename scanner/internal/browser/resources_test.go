package browser

import "testing"

func TestShouldBlock(t *testing.T) {
	tests := []struct {
		name    string
		config  []string
		resType string
		want    bool
	}{
		{"plural image", []string{"images"}, "Image", true},
		{"singular image", []string{"image"}, "Image", true},
		{"plural font", []string{"fonts"}, "Font", true},
		{"singular font", []string{"font"}, "Font", true},
		{"media", []string{"media"}, "Media", true},
		{"plural stylesheet", []string{"Stylesheets"}, "Stylesheet", true},
		{"singular stylesheet", []string{"stylesheet"}, "Stylesheet", true},
		{"xhr", []string{"xhr"}, "XHR", true},
		{"padded name", []string{" image "}, "Image", true},
		{"not listed", []string{"image", "font", "media"}, "Document", false},
		{"script not listed", []string{"images"}, "Script", false},
		{"empty config", nil, "Image", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldBlock(blockSet(tt.config), tt.resType); got != tt.want {
				t.Errorf("shouldBlock(%v, %q) = %v, want %v", tt.config, tt.resType, got, tt.want)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.defaults()
	if c.ViewportWidth != 1280 || c.ViewportHeight != 1200 {
		t.Errorf("viewport: got %dx%d, want 1280x1200", c.ViewportWidth, c.ViewportHeight)
	}
	if c.NavigationTimeout.Seconds() != 60 {
		t.Errorf("NavigationTimeout: got %v, want 60s", c.NavigationTimeout)
	}
	if c.IdleWindow.Milliseconds() != 500 {
		t.Errorf("IdleWindow: got %v, want 500ms", c.IdleWindow)
	}
	if c.SettleDelay != 0 {
		t.Errorf("SettleDelay: got %v, want 0 (caller decides)", c.SettleDelay)
	}
	if c.Logger == nil {
		t.Error("Logger: got nil")
	}
}
