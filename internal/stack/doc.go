// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package stack declares the AWS CDK constructs that host an OpenNext
// application: an asset bucket, the server and image optimization functions
// behind function URLs, a CloudFront distribution routing by path, the TLS
// certificate, and the Route 53 alias records. Constructs only map their
// inputs onto resource declarations; CloudFormation does the rest.
package stack
