// Package image finds a picture for an English word through the Youdao
// picture dictionary and either stores it locally or references it by URL.
package image
