// Package dictionary looks English words up on the Youdao dictionary web
// page and extracts British and American IPA, the basic Chinese
// translations, and the first bilingual example sentence.
package dictionary
