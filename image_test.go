package mdriver

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync/atomic"
	"testing"
)

type fakeResolver struct {
	img   image.Image
	err   error
	calls atomic.Int32
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (image.Image, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func TestParseImageProtocol(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]ImageProtocol{"": ImageNone, "none": ImageNone, "OFF": ImageNone, " kitty ": ImageKitty} {
		got, err := ParseImageProtocol(name)
		if err != nil || got != want {
			t.Fatalf("ParseImageProtocol(%q) = %v %v", name, got, err)
		}
	}
	if _, err := ParseImageProtocol("sixel"); !errors.Is(err, ErrUnsupportedImageProtocol) {
		t.Fatalf("expected ErrUnsupportedImageProtocol, got %v", err)
	}
	if ImageKitty.String() != "kitty" || ImageNone.String() != "none" {
		t.Fatalf("unexpected protocol names")
	}
}

func TestImageDrawnWithKitty(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{img: image.NewRGBA(image.Rect(0, 0, 30, 20))}
	p := boringParser(t, WithImages(ImageKitty), WithImageResolver(res), WithWidth(40))
	out := p.Feed("![a](pic.png) ![b](pic.png)\n") + p.Flush()
	if strings.Count(out, "\x1b_Ga=T,f=100,c=3,r=1,") != 2 {
		t.Fatalf("expected two kitty images, got %q", out)
	}
	if strings.Contains(out, "![") {
		t.Fatalf("literal image markup left in output: %q", out)
	}
	if n := res.calls.Load(); n != 1 {
		t.Fatalf("resolver called %d times, want 1", n)
	}
}

func TestImageFailureFallsBackToAlt(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{err: errors.New("gone")}
	p := boringParser(t, WithImages(ImageKitty), WithImageResolver(res))
	if out := p.Feed("see ![the alt](missing.png)\n") + p.Flush(); out != "see the alt\n" {
		t.Fatalf("got %q", out)
	}
}

func TestImageNoneKeepsMarkup(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{img: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	p := boringParser(t, WithImageResolver(res))
	if out := p.Feed("![x](y.png)") + p.Flush(); out != "![x](y.png)\n" {
		t.Fatalf("got %q", out)
	}
	if res.calls.Load() != 0 {
		t.Fatalf("resolver used with images off")
	}
}
