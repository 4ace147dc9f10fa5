// Package colour provides the channel arithmetic shared by the palettes:
//
//   - [Normalize]: folds any integer into a displayable 0..255 channel
//   - [Lerp]: linear interpolation between two colours
//   - [HSVToRGB]: sector based HSV conversion
//
// Channels never saturate. Values outside 0..255 wrap with a period of 510,
// which is what gives the trig and linear palettes their banding.
package colour
