package pca9685

// Register map.
const (
	regMode1      = 0x00
	regMode2      = 0x01
	regSubAdr1    = 0x02
	regSubAdr2    = 0x03
	regSubAdr3    = 0x04
	regAllCallAdr = 0x05

	regLED0OnL  = 0x06
	regLED0OnH  = 0x07
	regLED0OffL = 0x08
	regLED0OffH = 0x09

	regAllLEDOnL  = 0xFA
	regAllLEDOnH  = 0xFB
	regAllLEDOffL = 0xFC
	regAllLEDOffH = 0xFD
	regPrescale   = 0xFE
)

// MODE1 bits.
const (
	mode1AllCall = 0x01
	mode1Sleep   = 0x10
	mode1Restart = 0x80
)

// MODE2 bits.
const (
	mode2OutDrv = 0x04 // totem pole outputs
	mode2Invrt  = 0x10
)

const (
	// NumChannels is the number of PWM outputs.
	NumChannels = 16

	// MaxTicks is the last counter position of a PWM cycle.
	MaxTicks = 4095

	// FullBit in ON_H (full on) or OFF_H (full off). OFF wins when both are set.
	FullBit = 0x10

	DefaultAddr   = 0x40
	DefaultFreqHz = 60

	regsPerChannel = 4
	writeRetries   = 2

	oscillatorHz = 25_000_000
	counterSteps = 4096
	prescaleMin  = 3 // hardware clamps lower values
	prescaleMax  = 255

	// Supported PWM frequency range, i.e. the output rate at prescale 255
	// and at prescale 3, rounded to whole Hz.
	MinFrequencyHz = 24
	MaxFrequencyHz = 1526
)

// ChannelBase returns the LEDn_ON_L register of channel n.
func ChannelBase(n int) byte {
	return byte(regLED0OnL + regsPerChannel*n)
}
