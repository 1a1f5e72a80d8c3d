package geoconv

// MGRS grid letters never use I or O, so all square-letter arithmetic runs
// over a 24-letter alphabet. Keeping the letter/position conversion in one
// place avoids scattering skip-I, skip-O adjustments through the encode and
// decode paths.

// gridLetters is the MGRS alphabet in order. Row and column letters are
// offsets into it.
const gridLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// upsColumnLetters are the letters usable as UPS square columns. Besides I
// and O, the UPS grid also omits D, E, M, N, V and W.
const upsColumnLetters = "ABCFGHJKLPQRSTUXYZ"

// gridLetterIndex returns the position of c in the 24-letter alphabet, or
// -1 if c is not a valid grid letter (including I and O).
func gridLetterIndex(c byte) int {
	if c < 'A' || c > 'Z' || c == 'I' || c == 'O' {
		return -1
	}
	i := int(c - 'A')
	if c > 'O' {
		return i - 2
	}
	if c > 'I' {
		return i - 1
	}
	return i
}

// gridLetter returns the letter at position i of the 24-letter alphabet.
// i must be in 0..23.
func gridLetter(i int) byte {
	return gridLetters[i]
}

// upsColumnIndex returns the position of c within the UPS column alphabet,
// or -1 if c cannot be a UPS column letter.
func upsColumnIndex(c byte) int {
	for i := 0; i < len(upsColumnLetters); i++ {
		if upsColumnLetters[i] == c {
			return i
		}
	}
	return -1
}
