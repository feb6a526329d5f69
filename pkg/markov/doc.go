/*
Package markov builds order-k Markov models over arbitrary ordered symbols
(runes, words, token IDs) and walks them to produce new sequences that locally
resemble the training data.

A Generator moves through three stages. While building, Ingest reads one or
more SymbolStreams and records, for every k-length context, how often each
follower symbol was seen. Finalize compiles every per-context Table into a
constant-time sampler. After that, Generate, GenerateList and Stream emit
symbols: each run first replays the seed (the first context ever ingested)
and then samples followers, falling back to the seed whenever it reaches a
context that was never followed by anything.

Contexts are stored in a seqtrie.Trie, whose value enumeration is what
Finalize uses to reach every table.
*/
package markov
