package spatial

// Base32 encoding for geohash
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// CellIDPrecision is the geohash length used to label grid cells (~19m at the equator),
// fine enough that every 0.0045° cell gets a distinct id.
const CellIDPrecision = 8

// EncodeGeohash encodes latitude and longitude into a geohash string
// precision: number of characters in the geohash (1-12)
func EncodeGeohash(lat, lon float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > 12 {
		precision = 12
	}

	latLo, latHi := -90.0, 90.0
	lonLo, lonHi := -180.0, 180.0

	geohash := make([]byte, 0, precision)
	evenBit := true
	bits, ch := 0, 0

	for len(geohash) < precision {
		if evenBit {
			mid := (lonLo + lonHi) / 2
			if lon > mid {
				ch |= 1 << (4 - bits)
				lonLo = mid
			} else {
				lonHi = mid
			}
		} else {
			mid := (latLo + latHi) / 2
			if lat > mid {
				ch |= 1 << (4 - bits)
				latLo = mid
			} else {
				latHi = mid
			}
		}
		evenBit = !evenBit

		bits++
		if bits == 5 {
			geohash = append(geohash, base32[ch])
			bits, ch = 0, 0
		}
	}

	return string(geohash)
}

// DecodeGeohash decodes a geohash string into the center of its cell.
// ok is false when the string contains characters outside the geohash alphabet.
func DecodeGeohash(geohash string) (lat, lon float64, ok bool) {
	latLo, latHi := -90.0, 90.0
	lonLo, lonHi := -180.0, 180.0

	evenBit := true
	for i := 0; i < len(geohash); i++ {
		idx := indexOfBase32(geohash[i])
		if idx == -1 {
			return 0, 0, false
		}

		for mask := 16; mask > 0; mask >>= 1 {
			if evenBit {
				mid := (lonLo + lonHi) / 2
				if idx&mask != 0 {
					lonLo = mid
				} else {
					lonHi = mid
				}
			} else {
				mid := (latLo + latHi) / 2
				if idx&mask != 0 {
					latLo = mid
				} else {
					latHi = mid
				}
			}
			evenBit = !evenBit
		}
	}

	return (latLo + latHi) / 2, (lonLo + lonHi) / 2, len(geohash) > 0
}

func indexOfBase32(ch byte) int {
	for i := 0; i < len(base32); i++ {
		if base32[i] == ch {
			return i
		}
	}
	return -1
}
