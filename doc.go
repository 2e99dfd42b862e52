// Package fundtrade replays the statement records of a single fund or
// exchange-traded instrument into derived ledgers, from which positions,
// reports and money-weighted returns are computed.
//
// The core functionalities include:
//   - Record Decoding: interpreting compact statement records where one
//     signed number carries the operation (purchase, redemption by shares,
//     redemption by ratio) and its dividend-handling flag.
//   - Ledger Replay: a stepwise engine that walks the statement one priced
//     day at a time, resolving nominal dates against the valuation calendar
//     and applying dividends and share conversions annotated on quotes.
//   - Lot Bookkeeping: a FIFO ledger of open purchase lots, consumed on
//     redemption and rescaled on conversion, snapshot after every day.
//   - Return Analysis: XIRR over one or several holdings, daily reports with
//     cost, occupation and turnover metrics.
//   - Data Persistence: encoding and decoding of statements, valuation
//     histories and derived ledgers as human-readable JSONL streams.
//
// This package serves as the foundational logic for the `ft` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package fundtrade
