// Package vsx audits VS Code extension packs against the Open VSX registry.
//
// # Overview
//
// An audit is a single forward pass through four stages:
//
//  1. [Resolver] finds the pack in the Visual Studio Marketplace, follows its
//     manifest to the GitHub repository, and reads the member list from the
//     repository's package.json.
//  2. [Checker] looks every member (and the pack itself) up in the local
//     Open VSX [Index], falling back to a live registry lookup for misses.
//  3. [Enricher] fetches the repository license and last-updated timestamp
//     for every member missing from Open VSX.
//  4. [Classifier] partitions the members into present, deprecated,
//     ineligible, licensed, and unlicensed buckets.
//
// [Auditor] wires the stages together and is what the CLI drives.
//
// # Degradation
//
// Only the pack resolution can fail an audit. Lookups for individual members
// are best effort: a failed Open VSX lookup counts as "not present", a failed
// enrichment leaves the license empty. Such failures are collected into
// [Result.Warnings] and never abort the batch.
//
// # Classification
//
// For each member absent from Open VSX the first matching rule wins:
//
//	deprecated → ineligible → licensed (exact SPDX id) → unlicensed
//
// Licensed and unlicensed members are ordered by last-updated time, oldest
// first; deprecated and ineligible members keep manifest order.
package vsx
