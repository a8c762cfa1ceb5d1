package display

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"

	"golang.org/x/term"
)

const (
	resetANSI = "\x1b[0m"
	halfBlock = "▀"
)

var (
	fgANSI [256]string
	bgANSI [256]string
)

func init() {
	for i := range fgANSI {
		fgANSI[i] = "\x1b[38;5;" + strconv.Itoa(i) + "m"
		bgANSI[i] = "\x1b[48;5;" + strconv.Itoa(i) + "m"
	}
}

// Terminal draws frames with 256-color half blocks: every cell shows two
// vertically stacked pixels.
type Terminal struct {
	out       io.Writer
	fd        int
	statusBar bool
	buf       bytes.Buffer
}

// NewTerminal writes to out, stdout when nil. Size is only known when out
// is a terminal file.
func NewTerminal(out io.Writer, statusBar bool) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	fd := -1
	if f, ok := out.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &Terminal{out: out, fd: fd, statusBar: statusBar}
}

// Open switches to the alternate screen and hides the cursor.
func (t *Terminal) Open() {
	io.WriteString(t.out, "\x1b[?1049h\x1b[2J\x1b[H\x1b[?25l")
}

// Size maps the terminal grid onto pixels, two rows per cell.
func (t *Terminal) Size() (int, int, bool) {
	if t.fd < 0 {
		return 0, 0, false
	}
	cols, rows, err := term.GetSize(t.fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	if t.statusBar && rows > 1 {
		rows--
	}
	return cols, rows * 2, true
}

func (t *Terminal) Present(frame *image.RGBA, status string) error {
	t.buf.Reset()
	t.buf.WriteString("\x1b[H")
	encodeHalfBlocks(&t.buf, frame)
	if t.statusBar {
		t.buf.WriteString(statusBar(status, frame.Bounds().Dx()))
	}
	_, err := t.out.Write(t.buf.Bytes())
	return err
}

// Close restores the cursor and the main screen.
func (t *Terminal) Close() error {
	_, err := io.WriteString(t.out, "\x1b[?25h\x1b[?1049l"+resetANSI)
	return err
}

func encodeHalfBlocks(buf *bytes.Buffer, frame *image.RGBA) {
	b := frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		lastFG, lastBG := -1, -1
		for x := b.Min.X; x < b.Max.X; x++ {
			fg := ansiIndex(frame.RGBAAt(x, y))
			bg := 16
			if y+1 < b.Max.Y {
				bg = ansiIndex(frame.RGBAAt(x, y+1))
			}
			if fg != lastFG {
				buf.WriteString(fgANSI[fg])
				lastFG = fg
			}
			if bg != lastBG {
				buf.WriteString(bgANSI[bg])
				lastBG = bg
			}
			buf.WriteString(halfBlock)
		}
		buf.WriteString(resetANSI)
		buf.WriteString("\r\n")
	}
}

// ansiIndex maps a color onto the xterm 256-color cube or its gray ramp.
func ansiIndex(c color.RGBA) int {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	if math.Abs(r-g) < 0.02 && math.Abs(g-b) < 0.02 {
		return 232 + int(math.Round(r*23))
	}
	ri := int(r*5 + 0.5)
	gi := int(g*5 + 0.5)
	bi := int(b*5 + 0.5)
	return 16 + 36*ri + 6*gi + bi
}

func statusBar(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return text + string(bytes.Repeat([]byte{' '}, width-len(runes)))
}
