package nrf24

// SPI commands, nRF24L01+ product specification §8.3.1.
const (
	cmdReadReg   = 0x00 // | register
	cmdWriteReg  = 0x20 // | register
	cmdReadRxPl  = 0x61
	cmdWriteTxPl = 0xA0
	cmdFlushTx   = 0xE1
	cmdFlushRx   = 0xE2
	cmdNop       = 0xFF
)

// Registers.
const (
	regConfig     = 0x00
	regEnAA       = 0x01
	regEnRxAddr   = 0x02
	regSetupAW    = 0x03
	regSetupRetr  = 0x04
	regRFChannel  = 0x05
	regRFSetup    = 0x06
	regStatus     = 0x07
	regRxAddrP0   = 0x0A
	regTxAddr     = 0x10
	regRxPwP0     = 0x11
	regFIFOStatus = 0x17
)

// regConfig bits.
const (
	cfgPrimRX = 1 << 0
	cfgPwrUp  = 1 << 1
	cfgCRCO   = 1 << 2 // 2-byte CRC
	cfgEnCRC  = 1 << 3
)

// regStatus bits.
const (
	statusMaxRT = 1 << 4 // retransmit limit reached
	statusTxDS  = 1 << 5 // transmit data sent
	statusRxDR  = 1 << 6 // receive data ready
)

// regFIFOStatus bits.
const (
	fifoRxEmpty = 1 << 0
)

// regSetupAW: 5-byte address width.
const setupAW5 = 0x03

// regSetupRetr: 500us retransmit delay, 15 retries (matches the radio's
// auto-ack expectations at 1Mbps with 8-byte payloads).
const setupRetrDefault = 0x1F

// regRFSetup: 1Mbps, 0dBm.
const rfSetup1Mbps0dBm = 0x06
