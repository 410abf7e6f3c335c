// Package shaders holds the GLSL sources for the default pipeline. The
// renderer loads the compiled .spv files from this directory at runtime.
package shaders

//go:generate glslc triangle.vert -o triangle.vert.spv
//go:generate glslc triangle.frag -o triangle.frag.spv
