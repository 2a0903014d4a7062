// Package detector implements the motion decision pipeline: a rolling
// background model wrapped in the noise-suppression policy that turns raw
// frames into a per-frame "significant motion" signal.
package detector
