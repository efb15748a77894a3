// Package io provides the host-side collaborators of the CHIP-8 machine:
// loading and saving raw program images (Rom) and rendering the display
// as text (Terminal).
package io
