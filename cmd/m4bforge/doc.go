// Command m4bforge combines, splits, and converts chaptered audiobook
// containers using an external ffmpeg install.
package main
