// Package nam implements a small calculator language over IEEE-754 doubles
// and dense matrices.
//
// A line such as "A = [1, 2; 3, 4]" or "x = 2 + 3*4; x / 2" is tokenized,
// parsed one statement at a time into a postfix sequence, and evaluated
// against a Context holding the variables. Statements that are neither
// assignments nor bare variable reads store their result in "ans". A
// statement ending in a semicolon is still evaluated but asks the caller not
// to print its result.
//
// Matrices support the usual arithmetic with scalar broadcasting, and
// division by a square matrix multiplies by its inverse. LU decomposition with
// partial pivoting provides rank and determinant.
package nam
