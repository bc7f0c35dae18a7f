// Package extract unpacks the downloaded application image into the
// workspace by invoking the image's own self-extraction facility.
package extract
