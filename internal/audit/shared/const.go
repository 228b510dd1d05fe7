package shared

// MaxValue32 is the normalization divisor of left-justified 32-bit signed PCM (2^31).
const MaxValue32 = 2147483648.0
