// Package conv writes integer digits into caller-provided buffers. Each
// function fills buf from the end and returns the used tail; nothing allocates.
package conv

const upperHex = "0123456789ABCDEF"

// Utoa writes the base-10 representation of n. buf should hold 20 bytes.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if i == 0 {
		return buf[:0]
	}
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}

// Itoa writes the base-10 representation of n with a leading '-' for
// negatives. buf should hold 20 bytes.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	// -n wraps for MinInt64, which still yields the right magnitude as uint64.
	d := Utoa(buf, uint64(-n))
	i := len(buf) - len(d)
	if i == 0 {
		return d
	}
	i--
	buf[i] = '-'
	return buf[i:]
}

// UHex writes exactly nibbles upper-case hex digits of n, zero padded.
func UHex(buf []byte, n uint64, nibbles int) []byte {
	if nibbles > len(buf) {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < nibbles; j++ {
		i--
		buf[i] = upperHex[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// UBin writes exactly bits binary digits of n, zero padded.
func UBin(buf []byte, n uint64, bits int) []byte {
	if bits > len(buf) {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < bits; j++ {
		i--
		buf[i] = byte('0' + n&1)
		n >>= 1
	}
	return buf[i:]
}
