package utils

const (
	SYMTOL = 1.e-12 // Relative tolerance for symmetry checks of input matrices
)
