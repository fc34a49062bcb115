//go:build linux

package display

import (
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// ST7789 panel commands.
const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVON   = 0x21
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

// spiChunk keeps transfers under the kernel's SPI buffer limit.
const spiChunk = 4096

// ST7789Config selects the SPI port, control pins and panel offsets.
type ST7789Config struct {
	SPIPort       string // e.g. "SPI1.0"
	ResetPin      string
	DCPin         string
	BacklightPin  string
	BacklightPath string // sysfs backlight node, preferred over the pin
	RowOffset     int
	ColOffset     int
}

// ST7789 drives the panel over SPI. The framebuffer arrives as RGBA and
// is converted to RGB565 on the way out.
type ST7789 struct {
	port spi.PortCloser
	conn spi.Conn
	dc   gpio.PinIO
	rst  gpio.PinIO
	bl   gpio.PinIO
	cfg  ST7789Config

	buf []byte // reused RGB565 conversion buffer
}

// NewST7789 initializes the SPI bus, control pins and the panel itself.
func NewST7789(cfg ST7789Config) (*ST7789, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi %s: %w", cfg.SPIPort, err)
	}
	conn, err := port.Connect(40000*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	d := &ST7789{
		port: port,
		conn: conn,
		dc:   gpioreg.ByName(cfg.DCPin),
		rst:  gpioreg.ByName(cfg.ResetPin),
		cfg:  cfg,
		buf:  make([]byte, Width*Height*2),
	}
	if d.dc == nil {
		port.Close()
		return nil, fmt.Errorf("dc pin %q not found", cfg.DCPin)
	}
	if cfg.BacklightPin != "" {
		d.bl = gpioreg.ByName(cfg.BacklightPin)
	}

	if err := d.init(); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func (d *ST7789) init() error {
	if d.rst != nil {
		d.rst.Out(gpio.Low)
		time.Sleep(20 * time.Millisecond)
		d.rst.Out(gpio.High)
		time.Sleep(120 * time.Millisecond)
	}

	steps := []struct {
		cmd  byte
		data []byte
		wait time.Duration
	}{
		{cmdSWRESET, nil, 150 * time.Millisecond},
		{cmdSLPOUT, nil, 120 * time.Millisecond},
		{cmdCOLMOD, []byte{0x55}, 10 * time.Millisecond}, // 16-bit color
		{cmdMADCTL, []byte{0x60}, 0},                     // landscape
		{cmdINVON, nil, 0},
		{cmdNORON, nil, 10 * time.Millisecond},
		{cmdDISPON, nil, 100 * time.Millisecond},
	}
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return fmt.Errorf("panel init cmd %#x: %w", s.cmd, err)
		}
		if s.wait > 0 {
			time.Sleep(s.wait)
		}
	}
	return nil
}

// PushFrame converts the frame to RGB565 and writes it to the full panel
// window.
func (d *ST7789) PushFrame(img *image.RGBA) error {
	if err := d.setWindow(0, 0, Width, Height); err != nil {
		return err
	}

	i := 0
	for y := 0; y < Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+Width*4]
		for x := 0; x < Width; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			v := uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
			d.buf[i] = byte(v >> 8)
			d.buf[i+1] = byte(v)
			i += 2
		}
	}

	if err := d.command(cmdRAMWR); err != nil {
		return err
	}
	return d.data(d.buf)
}

// SetBacklight writes the sysfs node when configured, otherwise switches
// the backlight pin. Failures are logged, never propagated.
func (d *ST7789) SetBacklight(level int) {
	if d.cfg.BacklightPath != "" {
		if err := os.WriteFile(d.cfg.BacklightPath, []byte(strconv.Itoa(level)), 0644); err != nil {
			log.Printf("display: backlight write: %v", err)
		}
		return
	}
	if d.bl != nil {
		on := gpio.Low
		if level > 0 {
			on = gpio.High
		}
		if err := d.bl.Out(on); err != nil {
			log.Printf("display: backlight pin: %v", err)
		}
	}
}

// Close releases the SPI port.
func (d *ST7789) Close() error {
	return d.port.Close()
}

func (d *ST7789) setWindow(x, y, w, h int) error {
	x0 := x + d.cfg.ColOffset
	y0 := y + d.cfg.RowOffset
	x1 := x0 + w - 1
	y1 := y0 + h - 1
	if err := d.command(cmdCASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	return d.command(cmdRASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1))
}

func (d *ST7789) command(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("spi cmd %#x: %w", cmd, err)
	}
	if len(data) > 0 {
		return d.data(data)
	}
	return nil
}

func (d *ST7789) data(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > spiChunk {
			n = spiChunk
		}
		if err := d.conn.Tx(data[:n], nil); err != nil {
			return fmt.Errorf("spi data: %w", err)
		}
		data = data[n:]
	}
	return nil
}
