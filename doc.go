// Package photomosaic provides methods for generating photomosaics given a
// palette (= set) of images. It takes a target image, divides it into a grid
// of cells and replaces each cell by the palette image whose average color is
// closest to the color of that cell.
//
// The matching is done with the euclidean distance in RGB space, the tiles of
// the result all share the same size which is derived from the size of the
// target image, the grid dimensions and a scale factor.
//
// It ships with an executable program to generate mosaics (directly or in an
// interactive shell) and an http backend.
package photomosaic
