/*Package interval implements genomic region restrictions for the ASE tools.

  A restriction is either a single region string (contig, contig:pos or
  contig:start-end, 1-based and inclusive) or the union of the intervals of a
  BED file.  Overlapping and adjacent intervals are merged, so a Union only
  answers membership questions; it does not track which input interval a
  position came from.  Use package annotate for that.
*/
package interval
